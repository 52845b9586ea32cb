// Package response provides small helpers for writing JSON API responses.
// Sandbox control endpoints use an envelope; the emulated Sendblue endpoints
// write Sendblue's own shapes.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/NewtTheWolf/sendblue"
)

// JSONResponse is the common envelope for the sandbox's own endpoints.
type JSONResponse struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp string     `json:"timestamp"`
}

// ErrorBody holds details about an envelope error.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APIError is the body Sendblue returns for rejected requests.
type APIError struct {
	Status       string             `json:"status"`
	ErrorCode    sendblue.ErrorCode `json:"error_code,omitempty"`
	ErrorMessage string             `json:"error_message"`
}

// RespondJSON writes a successful envelope with the given status and payload.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	WriteJSON(w, status, JSONResponse{
		Success:   true,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RespondError writes an error envelope with the given status and message.
func RespondError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, JSONResponse{
		Success: false,
		Error: &ErrorBody{
			Code:    status,
			Message: msg,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// RespondAPIError writes a Sendblue-style error. 4xx statuses carry the
// validation error code, 5xx the internal one.
func RespondAPIError(w http.ResponseWriter, status int, msg string) {
	code := sendblue.ErrorCodeValidation
	if status >= http.StatusInternalServerError {
		code = sendblue.ErrorCodeInternal
	}
	if status == http.StatusUnauthorized {
		code = 0
	}
	WriteJSON(w, status, APIError{Status: "ERROR", ErrorCode: code, ErrorMessage: msg})
}

// WriteJSON encodes v as JSON and writes it to the response writer.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
