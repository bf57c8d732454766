package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paywatch/internal/service"
)

// HistoryHandler serves the controller's current state: the transaction
// list plus the loading flag and the last recorded error.
func HistoryHandler(history *service.HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		writeJSON(w, http.StatusOK, history.Snapshot())
	}
}

// RefreshHandler triggers a history reload. A failed reload still answers
// with the preserved previous list, so the response carries the snapshot
// either way; the error shows up in its error slot.
func RefreshHandler(history *service.HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		_ = history.LoadHistory(r.Context())
		writeJSON(w, http.StatusOK, history.Snapshot())
	}
}

// RecheckHandler triggers a status re-check for one order followed by a
// history reload.
func RecheckHandler(history *service.HistoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		orderID := chi.URLParam(r, "orderID")
		if err := history.RecheckStatus(r.Context(), orderID); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, history.Snapshot())
	}
}
