package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes a JSON response body with the given status
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// errorResponse is the uniform error body
type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
