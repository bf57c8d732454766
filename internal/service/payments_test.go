package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type memCreds struct {
	token string
}

func (m *memCreds) Token() string          { return m.token }
func (m *memCreds) Set(token string) error { m.token = token; return nil }
func (m *memCreds) Clear() error           { m.token = ""; return nil }

func TestPaymentClient_BearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	creds := &memCreds{}
	client := NewPaymentClient(srv.URL, creds)

	if _, err := client.GetTransactionHistory(context.Background()); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization header = %q, want omitted without a token", gotAuth)
	}

	creds.token = "tok-123"
	if _, err := client.GetTransactionHistory(context.Background()); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization header = %q, want Bearer tok-123", gotAuth)
	}
}

func TestPaymentClient_ServiceErrorExtraction(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"error field preferred", `{"error":"token expired","message":"other"}`, "token expired"},
		{"message fallback", `{"message":"not found"}`, "not found"},
		{"generic default", `{"details":"?"}`, "request failed"},
		{"non-json body", `oops`, "request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewPaymentClient(srv.URL, &memCreds{})
			_, err := client.GetProfile(context.Background())

			var serviceErr *ServiceError
			if !errors.As(err, &serviceErr) {
				t.Fatalf("got %v, want ServiceError", err)
			}
			if serviceErr.StatusCode != http.StatusUnauthorized {
				t.Errorf("StatusCode = %d, want 401", serviceErr.StatusCode)
			}
			if serviceErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", serviceErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestPaymentClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	client := NewPaymentClient(srv.URL, &memCreds{})
	_, err := client.GetTransactionHistory(context.Background())

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("got %v, want TransportError", err)
	}
	if ErrorMessage(err) != "request failed" {
		t.Errorf("ErrorMessage = %q, want generic", ErrorMessage(err))
	}
}

func TestPaymentClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-abc",
			"user":  map[string]any{"username": "alice"},
		})
	}))
	defer srv.Close()

	creds := &memCreds{}
	client := NewPaymentClient(srv.URL, creds)

	res, err := client.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Token != "tok-abc" || res.User.Username != "alice" {
		t.Errorf("unexpected response: %+v", res)
	}
	if creds.token != "tok-abc" {
		t.Errorf("token not stored, got %q", creds.token)
	}
}

func TestPaymentClient_LogoutClearsTokenOnRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"redis down"}`))
	}))
	defer srv.Close()

	creds := &memCreds{token: "tok-abc"}
	client := NewPaymentClient(srv.URL, creds)

	if err := client.Logout(context.Background()); err == nil {
		t.Fatal("expected remote logout error")
	}
	if creds.token != "" {
		t.Errorf("local session should be cleared regardless, token = %q", creds.token)
	}
}

func TestPaymentClient_GetPaymentStatusPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"order_id": "A1", "transaction_status": "pending"})
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, &memCreds{})
	res, err := client.GetPaymentStatus(context.Background(), "A1")
	if err != nil {
		t.Fatalf("GetPaymentStatus failed: %v", err)
	}
	if gotPath != "/payments/status/A1" {
		t.Errorf("path = %q, want /payments/status/A1", gotPath)
	}
	if res.TransactionStatus != "pending" {
		t.Errorf("TransactionStatus = %q", res.TransactionStatus)
	}
}

func TestPaymentClient_CreatePaymentGeneratesOrderID(t *testing.T) {
	var gotBody OrderRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"redirect_url": "https://pay/z"})
	}))
	defer srv.Close()

	client := NewPaymentClient(srv.URL, &memCreds{})
	res, err := client.CreatePayment(context.Background(), OrderRequest{Amount: 5000})
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}

	if !strings.HasPrefix(gotBody.OrderID, "ORDER-") {
		t.Errorf("order reference not generated, got %q", gotBody.OrderID)
	}
	if res.OrderID != gotBody.OrderID {
		t.Errorf("response OrderID = %q, want %q", res.OrderID, gotBody.OrderID)
	}
	if res.RedirectURL != "https://pay/z" {
		t.Errorf("RedirectURL = %q", res.RedirectURL)
	}
}
