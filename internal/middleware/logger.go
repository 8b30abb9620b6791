// File: internal/middleware/logger.go
package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/jucoreach/jucoreach/internal/ratelimit"
)

// LoggingMiddleware logs method, path, status and duration for every
// request. Client IP goes through the same forwarded-header resolution the
// rate limiter uses so the two agree.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		log.Printf("%s %s %d from %s in %v",
			r.Method,
			r.URL.Path,
			wrapper.statusCode,
			ratelimit.GetClientIP(r),
			time.Since(start),
		)
	})
}
