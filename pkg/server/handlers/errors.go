package handlers

import (
	"encoding/json"
	"net/http"

	"freightworks/meridian/pkg/shipment"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code and human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps the domain error taxonomy onto HTTP status codes:
// validation 400, not found 404, invalid transition 409, everything
// else 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	code := "internal"
	message := "An internal error occurred. Please try again later."
	status := http.StatusInternalServerError

	switch {
	case shipment.IsValidation(err):
		code = "validation_error"
		message = err.Error()
		status = http.StatusBadRequest
	case shipment.IsNotFound(err):
		code = "not_found"
		message = err.Error()
		status = http.StatusNotFound
	case shipment.IsInvalidTransition(err):
		code = "invalid_transition"
		message = err.Error()
		status = http.StatusConflict
	}

	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
