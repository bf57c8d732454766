package model

import "time"

// Transaction is the canonical, naming-convention-independent form of a
// payment record as returned by the remote service.
type Transaction struct {
	OrderID    string     `json:"order_id"`
	Amount     float64    `json:"amount"`
	Status     Status     `json:"status"`
	PaymentURL string     `json:"payment_url,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	Items      []LineItem `json:"items"`
}

type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}
