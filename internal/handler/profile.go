package handler

import (
	"net/http"

	"paywatch/internal/service"
)

func ProfileHandler(client *service.PaymentClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		profile, err := client.GetProfile(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, profile)
	}
}
