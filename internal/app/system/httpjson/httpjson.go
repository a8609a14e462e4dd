// Package httpjson provides the JSON response helpers shared by all API
// handlers: a success envelope, an error envelope, and the mapping from the
// service error taxonomy to HTTP status codes.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the JSON body for every non-2xx API response.
type errorResponse struct {
	Error string `json:"error"`
}

// Write encodes v as JSON with the given status code.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK encodes v as JSON with a 200 status.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Error writes the error envelope with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, errorResponse{Error: msg})
}

// Unauthorized writes a 401 (no or invalid session).
func Unauthorized(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "unauthorized"
	}
	Error(w, http.StatusUnauthorized, msg)
}

// Forbidden writes a 403 (authenticated but wrong role).
func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "forbidden"
	}
	Error(w, http.StatusForbidden, msg)
}

// NotFound writes a 404 (club, user, or request absent).
func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "not found"
	}
	Error(w, http.StatusNotFound, msg)
}

// Conflict writes a 409 (invalid state for the requested transition).
func Conflict(w http.ResponseWriter, msg string) {
	Error(w, http.StatusConflict, msg)
}

// BadRequest writes a 400 (malformed or missing input).
func BadRequest(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "bad request"
	}
	Error(w, http.StatusBadRequest, msg)
}

// ServerError writes a 500. The detailed cause belongs in the log, not the
// response body.
func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "internal server error")
}

// Decode reads the request body into v. Returns false (and writes a 400)
// when the body is not valid JSON.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid JSON body")
		return false
	}
	return true
}
