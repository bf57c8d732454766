package model

// Profile is the authenticated user's profile as reported by the payment
// service.
type Profile struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
}
