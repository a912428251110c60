package utils

import (
	"encoding/json"
	"net/http"

	"hotel-backend/internal/apperr"
)

type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: true, Data: data})
}

// Error writes a failure envelope with an explicit status.
func Error(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: false, Error: message})
}

// Fail writes a failure envelope, mapping the error's kind to a status.
func Fail(w http.ResponseWriter, err error) {
	Error(w, apperr.HTTPStatus(err), err.Error())
}
