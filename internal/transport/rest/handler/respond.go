package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pyqbank/internal/apperr"
)

// envelope is the uniform response shape of every endpoint.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

func writeValidationError(w http.ResponseWriter, ve *apperr.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(envelope{Success: false, Message: "validation failed", Errors: ve.Fields})
}

// writeServiceError maps the error taxonomy onto HTTP statuses. Internal
// details never reach the client.
func writeServiceError(w http.ResponseWriter, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		writeValidationError(w, ve)
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, apperr.ErrParse):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
