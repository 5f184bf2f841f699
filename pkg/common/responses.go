package common

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the generic error payload returned by every handler. The
// API deliberately exposes no structured error codes beyond a human-readable
// message; typed failure variants stay inside the process and are logged.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a mutation with a short human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// RespondError writes the generic error payload with the given status.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondMessage writes an acknowledgement payload with the given status.
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageResponse{Message: message})
}

// ParseJSONBody decodes a JSON request body into v with a size limit.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
