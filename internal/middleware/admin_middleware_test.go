// File: internal/middleware/admin_middleware_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jucoreach/jucoreach/internal/domain"
)

func requestAs(role domain.UserRole) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/billing/checkout", nil)
	ctx := context.WithValue(r.Context(), UserIDKey, uint(1))
	ctx = context.WithValue(ctx, RoleKey, role)
	return r.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	var reached bool
	handler := RequireRole(domain.RolePlayer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestAs(domain.RolePlayer))
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rr.Code)

	reached = false
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, requestAs(domain.RoleRecruiter))
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAnyRole(t *testing.T) {
	var reached bool
	handler := RequireAnyRole(domain.RoleRecruiter, domain.RoleCoach)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	for _, role := range []domain.UserRole{domain.RoleRecruiter, domain.RoleCoach} {
		reached = false
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, requestAs(role))
		assert.True(t, reached, "role %s should pass", role)
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	reached = false
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, requestAs(domain.RolePlayer))
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAnyRole_MissingClaims(t *testing.T) {
	handler := RequireAnyRole(domain.RoleRecruiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without role claims")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/billing/checkout", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
