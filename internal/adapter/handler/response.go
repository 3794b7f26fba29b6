package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rl1809/pos-journal/internal/core/service"
)

const (
	codeInvalidRequest    = "invalid_request"
	codeValidation        = "validation_error"
	codeInsufficientStock = "insufficient_stock"
	codeNotFound          = "not_found"
	codeInternal          = "internal_error"
)

type dataEnvelope struct {
	Data any `json:"data"`
	// Durable is set on mutation responses only.
	Durable *bool `json:"durable,omitempty"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, dataEnvelope{Data: data})
}

// writeMutation answers a state change. A save failure does not undo the
// change, so the response still carries the data and flags durable=false.
func writeMutation(w http.ResponseWriter, status int, data any, persistErr error) {
	durable := persistErr == nil
	writeJSON(w, status, dataEnvelope{Data: data, Durable: &durable})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func writeServiceError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: apiError{
			Code:    codeInvalidRequest,
			Message: reqErr.message,
			Details: reqErr.details,
		}})
		return
	}

	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeError(w, status, code, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict, codeInsufficientStock
	case errors.Is(err, service.ErrSaleNotFound):
		return http.StatusNotFound, codeNotFound
	case service.IsValidation(err):
		return http.StatusBadRequest, codeValidation
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
