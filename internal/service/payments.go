package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"paywatch/internal/model"
)

// CredentialStore is the session-scoped holder of the bearer token. The
// client sets it on login and clears it on logout; a missing token is not
// an error — the request goes out unauthenticated and the service decides.
type CredentialStore interface {
	Token() string
	Set(token string) error
	Clear() error
}

// PaymentClient is a thin typed facade over the remote payment service.
// One request per operation, no retries; failures propagate immediately.
type PaymentClient struct {
	baseURL string
	creds   CredentialStore
	client  *http.Client
}

func NewPaymentClient(baseURL string, creds CredentialStore) *PaymentClient {
	return &PaymentClient{
		baseURL: baseURL,
		creds:   creds,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type RegisterRequest struct {
	FullName    string `json:"full_name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Address     string `json:"address,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  model.Profile `json:"user"`
}

type OrderRequest struct {
	OrderID string      `json:"order_id,omitempty"`
	Amount  float64     `json:"amount"`
	Items   []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// PaymentDescriptor is returned on payment creation; RedirectURL is where
// the user completes the payment.
type PaymentDescriptor struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirect_url"`
}

type QrisPayment struct {
	OrderID  string `json:"order_id"`
	QRString string `json:"qr_string"`
}

type PaymentStatus struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
}

func (c *PaymentClient) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/register", req)
	return err
}

// Login authenticates against the service and, on success, stores the
// returned token in the credential store.
func (c *PaymentClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", req)
	if err != nil {
		return nil, err
	}

	var res LoginResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if res.Token != "" {
		if err := c.creds.Set(res.Token); err != nil {
			return nil, fmt.Errorf("store token: %w", err)
		}
	}
	return &res, nil
}

// Logout notifies the service and clears the local token. The token is
// cleared even when the remote call fails, matching the session lifecycle:
// a logout always ends the local session.
func (c *PaymentClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil)
	if clearErr := c.creds.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *PaymentClient) GetProfile(ctx context.Context) (*model.Profile, error) {
	body, err := c.do(ctx, http.MethodGet, "/profile", nil)
	if err != nil {
		return nil, err
	}

	var p model.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// CreatePayment creates a card/redirect payment. An order reference is
// generated when the caller supplies none.
func (c *PaymentClient) CreatePayment(ctx context.Context, req OrderRequest) (*PaymentDescriptor, error) {
	if req.OrderID == "" {
		req.OrderID = "ORDER-" + uuid.NewString()
	}

	body, err := c.do(ctx, http.MethodPost, "/payments/create", req)
	if err != nil {
		return nil, err
	}

	var res PaymentDescriptor
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if res.OrderID == "" {
		res.OrderID = req.OrderID
	}
	return &res, nil
}

func (c *PaymentClient) CreateQrisPayment(ctx context.Context, req OrderRequest) (*QrisPayment, error) {
	if req.OrderID == "" {
		req.OrderID = "ORDER-" + uuid.NewString()
	}

	body, err := c.do(ctx, http.MethodPost, "/payments/qris", req)
	if err != nil {
		return nil, err
	}

	var res QrisPayment
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode qris response: %w", err)
	}
	if res.OrderID == "" {
		res.OrderID = req.OrderID
	}
	return &res, nil
}

// GetPaymentStatus asks the service to re-check one order with the payment
// provider. The response is informational; authoritative state is always
// re-read from history afterwards.
func (c *PaymentClient) GetPaymentStatus(ctx context.Context, orderID string) (*PaymentStatus, error) {
	body, err := c.do(ctx, http.MethodGet, "/payments/status/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}

	var res PaymentStatus
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode status response: %w", err)
	}
	return &res, nil
}

// GetTransactionHistory returns the raw history body. Record shapes vary
// across service versions, so decoding is left to the normalizer.
func (c *PaymentClient) GetTransactionHistory(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/payments/history", nil)
}

func (c *PaymentClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newServiceError(resp.StatusCode, respBody)
	}

	return respBody, nil
}
