// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/jucoreach/jucoreach/internal/dtos"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, dtos.ErrorResponse{Error: msg})
}

// respondRateLimited emits the shared 429 shape so code-resend cooldowns
// and IP throttles look identical to clients.
func respondRateLimited(w http.ResponseWriter, msg string, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	respondJSON(w, http.StatusTooManyRequests, dtos.ErrorResponse{Error: msg, RetryAfter: retryAfter})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
