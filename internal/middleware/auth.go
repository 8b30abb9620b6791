// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/dtos"
	"github.com/jucoreach/jucoreach/internal/services/user_services"
)

// NewJWTMiddleware validates the Authorization: Bearer token and places
// the caller's ID and role on the request context.
func NewJWTMiddleware(authService *user_services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				log.Printf("[AuthMiddleware] Missing bearer token for %s", r.URL.Path)
				writeAuthError(w, "Authentication required")
				return
			}

			claims, err := authService.ValidateJWTToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token: %v", err)
				writeAuthError(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext pulls the authenticated user ID. Zero means the auth
// middleware did not run.
func UserIDFromContext(ctx context.Context) uint {
	id, _ := ctx.Value(UserIDKey).(uint)
	return id
}

// RoleFromContext pulls the authenticated role.
func RoleFromContext(ctx context.Context) domain.UserRole {
	role, _ := ctx.Value(RoleKey).(domain.UserRole)
	return role
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(dtos.ErrorResponse{Error: msg})
}
