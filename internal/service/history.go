package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"paywatch/internal/model"
)

// PaymentAPI is the subset of the payment client the history controller
// depends on.
type PaymentAPI interface {
	GetTransactionHistory(ctx context.Context) (json.RawMessage, error)
	GetPaymentStatus(ctx context.Context, orderID string) (*PaymentStatus, error)
}

// HistoryService owns the current transaction list together with its
// loading and error state for the lifetime of the process. A refresh
// always replaces the whole list; on failure the previous list is kept
// so the user still sees the last known truth. Overlapping refreshes are
// not coalesced — last writer wins.
type HistoryService struct {
	api PaymentAPI

	mu           sync.Mutex
	transactions []model.Transaction
	loading      bool
	lastErr      string
}

func NewHistoryService(api PaymentAPI) *HistoryService {
	return &HistoryService{api: api}
}

// HistorySnapshot is the controller state handed to the presentation layer.
type HistorySnapshot struct {
	Transactions []model.Transaction `json:"transactions"`
	Loading      bool                `json:"loading"`
	Error        string              `json:"error,omitempty"`
}

// LoadHistory fetches the transaction history, normalizes every record and
// atomically replaces the current list. A body that is not a collection is
// treated as an empty history, not a failure. On transport or service
// failure the previous list is preserved and the error is recorded.
func (s *HistoryService) LoadHistory(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	raw, err := s.api.GetTransactionHistory(ctx)
	if err != nil {
		s.recordError(err)
		return err
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		records = nil
	}

	transactions := make([]model.Transaction, 0, len(records))
	for _, record := range records {
		transactions = append(transactions, NormalizeTransaction(record))
	}

	s.mu.Lock()
	s.transactions = transactions
	s.lastErr = ""
	s.mu.Unlock()

	return nil
}

// RecheckStatus asks the service to re-check one order with the payment
// provider and then reloads the history regardless of the check's own
// outcome. The check response is never trusted directly; the reloaded
// history is the authoritative state.
func (s *HistoryService) RecheckStatus(ctx context.Context, orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return &ValidationError{Message: "order id is required"}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	_, checkErr := s.api.GetPaymentStatus(ctx, orderID)
	loadErr := s.LoadHistory(ctx)

	if checkErr != nil {
		s.recordError(checkErr)
		return checkErr
	}
	return loadErr
}

// PaymentURL resolves the resume-payment URL for an order. Orders without
// one (anything past pending) yield a ValidationError the presentation
// layer can surface as-is.
func (s *HistoryService) PaymentURL(orderID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range s.transactions {
		if tx.OrderID != orderID {
			continue
		}
		if tx.PaymentURL == "" {
			return "", &ValidationError{Message: "payment URL not available for this transaction"}
		}
		return tx.PaymentURL, nil
	}
	return "", &ValidationError{Message: "unknown order " + orderID}
}

// Transactions returns a copy of the current list in service order.
func (s *HistoryService) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// PendingOrders returns the order ids still awaiting payment.
func (s *HistoryService) PendingOrders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []string
	for _, tx := range s.transactions {
		if tx.Status.AllowsPayment() && tx.OrderID != "" {
			pending = append(pending, tx.OrderID)
		}
	}
	return pending
}

func (s *HistoryService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *HistoryService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *HistoryService) Snapshot() HistorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := make([]model.Transaction, len(s.transactions))
	copy(transactions, s.transactions)
	return HistorySnapshot{
		Transactions: transactions,
		Loading:      s.loading,
		Error:        s.lastErr,
	}
}

func (s *HistoryService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *HistoryService) recordError(err error) {
	s.mu.Lock()
	s.lastErr = ErrorMessage(err)
	s.mu.Unlock()
}

// ErrorMessage converts a classified error into the message shown to the
// user. Transport failures collapse to a generic message because nothing
// about the remote state is known.
func ErrorMessage(err error) string {
	var (
		transportErr  *TransportError
		serviceErr    *ServiceError
		validationErr *ValidationError
	)
	switch {
	case errors.As(err, &transportErr):
		return "request failed"
	case errors.As(err, &serviceErr):
		return serviceErr.Message
	case errors.As(err, &validationErr):
		return validationErr.Message
	default:
		return err.Error()
	}
}
