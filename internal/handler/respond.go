package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"paywatch/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError maps a classified error to an HTTP status and a JSON error
// body. Service errors pass the upstream status through; transport
// failures surface as a bad gateway.
func writeError(w http.ResponseWriter, err error) {
	var (
		transportErr  *service.TransportError
		serviceErr    *service.ServiceError
		validationErr *service.ValidationError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &serviceErr):
		status = serviceErr.StatusCode
	case errors.As(err, &transportErr):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, map[string]string{"error": service.ErrorMessage(err)})
}
