package response

import (
	"encoding/json"
	"net/http"

	"github.com/ajna/ajna-hub/pkg/validator"
)

// ErrorBody is the body of every error response
type ErrorBody struct {
	Error  string                     `json:"error"`
	Code   string                     `json:"code"`
	Fields validator.ValidationErrors `json:"fields,omitempty"`
}

// JSON sends data as a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Raw relays an already-encoded JSON body
func Raw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, ErrorBody{Error: message, Code: code})
}

// BadRequest sends a 400 response
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// ValidationFailed sends a 400 response listing the offending fields
func ValidationFailed(w http.ResponseWriter, message string, fields validator.ValidationErrors) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: message, Code: "VALIDATION_FAILED", Fields: fields})
}

// Unauthorized sends a 401 response
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// NotFound sends a 404 response
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

// InternalError sends a 500 response
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

// DispatchFailed sends a 500 response for a side effect that was attempted and failed
func DispatchFailed(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "DISPATCH_FAILED", message)
}

// BadGateway sends a 502 response
func BadGateway(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadGateway, "BAD_GATEWAY", message)
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message)
}

// OK sends a 200 response with data
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}
