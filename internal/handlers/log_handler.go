// File: internal/handlers/log_handler.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jucoreach/jucoreach/internal/middleware"
)

// ClientLogPayload is the shape the mobile and web apps post their error
// reports in.
type ClientLogPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Context any    `json:"context,omitempty"`
}

// LogClientEvent forwards client-side errors into the server's structured
// log stream. The route is public; a user ID is attached when the request
// carries a valid token.
func LogClientEvent(w http.ResponseWriter, r *http.Request) {
	var payload ClientLogPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	slog.Info("CLIENT_LOG",
		slog.String("level", payload.Level),
		slog.String("message", payload.Message),
		slog.Uint64("user_id", uint64(middleware.UserIDFromContext(r.Context()))),
		slog.Any("context", payload.Context),
	)

	w.WriteHeader(http.StatusNoContent)
}
