package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Rizwanu321/BillMate24-sub000/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps domain sentinels onto HTTP statuses so handlers
// stay free of status logic.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrBillDeleted):
		writeError(w, r, err.Error(), "BILL_DELETED", http.StatusConflict)
	case errors.Is(err, core.ErrEntityDeleted):
		writeError(w, r, err.Error(), "ENTITY_DELETED", http.StatusConflict)
	case errors.Is(err, core.ErrDuplicatePhone):
		writeError(w, r, err.Error(), "DUPLICATE_PHONE", http.StatusConflict)
	case errors.Is(err, core.ErrDuplicateWhatsApp):
		writeError(w, r, err.Error(), "DUPLICATE_WHATSAPP", http.StatusConflict)
	case errors.Is(err, core.ErrDuplicateEmail):
		writeError(w, r, err.Error(), "DUPLICATE_EMAIL", http.StatusConflict)
	case errors.Is(err, core.ErrInvalidInput):
		writeError(w, r, err.Error(), "INVALID_INPUT", http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidCredentials):
		writeError(w, r, "invalid email or password", "UNAUTHORIZED", http.StatusUnauthorized)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
// Returns false when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
