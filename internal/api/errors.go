package api

import (
	"encoding/json"
	"net/http"
)

// Envelope mirrors the vendor API response shape so the browser decodes
// console and vendor responses the same way.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// WriteError writes a failure envelope. data may carry state the client
// should still render, such as a modal with its inline error.
func WriteError(w http.ResponseWriter, status int, code, message string, data any) {
	WriteJSON(w, status, Envelope{Success: false, Error: code, Message: message, Data: data})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
