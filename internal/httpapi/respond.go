// Package httpapi holds the JSON conventions and middleware shared by every
// HTTP adapter.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeBadRequest        = "bad_request"
	CodeValidationFailed  = "validation_failed"
	CodeInvalidCoupon     = "invalid_coupon"
	CodeIllegalTransition = "illegal_transition"
	CodeEmptyCart         = "empty_cart"
	CodeNotFound          = "not_found"
	CodePersistenceFailed = "persistence_failed"
	CodeInternal          = "internal_error"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Fields []string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, fields ...string) {
	WriteJSON(w, status, ErrorBody{Error: message, Code: code, Fields: fields})
}

// DecodeJSON reads a size-limited JSON body into dst. An empty body is an error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	return nil
}
