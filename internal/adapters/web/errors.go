package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"invoicedesk/internal/core"
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

// writeDomainError maps domain errors to HTTP statuses: validation failures
// to 400, illegal lifecycle transitions to 409, missing entities to 404,
// everything else to 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		writeError(w, r, verr.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
		return
	}
	var terr *core.IllegalTransitionError
	if errors.As(err, &terr) {
		writeError(w, r, terr.Error(), "ILLEGAL_TRANSITION", http.StatusConflict)
		return
	}
	var nerr *core.NotFoundError
	if errors.As(err, &nerr) {
		writeError(w, r, nerr.Error(), "NOT_FOUND", http.StatusNotFound)
		return
	}
	writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeCreated writes a JSON response with status 201.
func writeCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(v)
}
