package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paywatch/internal/service"
)

func CreatePaymentHandler(client *service.PaymentClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req service.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusUnprocessableEntity)
			return
		}

		res, err := client.CreatePayment(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, res)
	}
}

func QrisPaymentHandler(client *service.PaymentClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req service.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusUnprocessableEntity)
			return
		}

		res, err := client.CreateQrisPayment(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, res)
	}
}

// PayNowHandler redirects the browser to the order's payment URL so the
// user can resume an unfinished payment.
func PayNowHandler(history *service.HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		orderID := chi.URLParam(r, "orderID")
		url, err := history.PaymentURL(orderID)
		if err != nil {
			writeError(w, err)
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}
