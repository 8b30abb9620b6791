// File: internal/middleware/admin_middleware.go
package middleware

import (
	"log"
	"net/http"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/repository/user"
)

// RequireAdmin checks that the authenticated user is an admin. It MUST run
// after the JWT middleware. The role is re-read from the database so a
// demoted admin cannot keep using an old token.
func RequireAdmin(userRepo user.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == 0 {
				log.Printf("[AdminMiddleware] Forbidden: no valid userID in context for path %s", r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			u, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				log.Printf("[AdminMiddleware] Forbidden: could not find user %d from token: %v", userID, err)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			if u.Role != domain.RoleAdmin {
				log.Printf("[AdminMiddleware] FORBIDDEN: non-admin '%s' (ID: %d) attempted admin route: %s", u.Username, u.ID, r.URL.Path)
				http.Error(w, "Forbidden: You do not have permission to access this page.", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole restricts a route to one account role, read from the token
// claims without a database round trip.
func RequireRole(role domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				log.Printf("[RoleMiddleware] Forbidden: route %s requires role %s", r.URL.Path, role)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole is RequireRole for routes shared by several roles.
func RequireAnyRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[domain.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed[RoleFromContext(r.Context())] {
				log.Printf("[RoleMiddleware] Forbidden: route %s not allowed for caller role", r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
