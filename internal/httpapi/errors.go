// Package httpapi serves the dashboard's order queries over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"orderdash/internal/orders"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// writeQueryError maps invalid input to 400 and everything else to 500.
func writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, orders.ErrInvalidArgument) {
		WriteJSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
