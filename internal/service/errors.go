package service

import (
	"encoding/json"
	"fmt"
)

// TransportError means the request could not be sent or no response was
// received. The remote state is unknown.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError means the service answered with an error payload.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error (status %d): %s", e.StatusCode, e.Message)
}

// ValidationError means a local precondition failed before any network
// call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// newServiceError extracts a human-readable message from an error response
// body, preferring the "error" field, then "message", then a generic default.
func newServiceError(statusCode int, body []byte) *ServiceError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := "request failed"
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Message != "":
			msg = payload.Message
		}
	}
	return &ServiceError{StatusCode: statusCode, Message: msg}
}
