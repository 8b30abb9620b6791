// File: internal/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/dtos"
	"github.com/jucoreach/jucoreach/internal/services/user_services"
)

var (
	usernameRegex     = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	passwordMinLength = 8
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	authService *user_services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *user_services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// validateRegistration ensures username, email, and password meet basic
// rules before they reach the service layer.
func validateRegistration(req *dtos.RegisterRequestDTO) string {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Password = strings.TrimSpace(req.Password)

	switch {
	case !usernameRegex.MatchString(req.Username):
		return "Username must be 3-20 characters, alphanumeric or underscore."
	case !emailRegex.MatchString(req.Email):
		return "Email format invalid."
	case len(req.Password) < passwordMinLength:
		return "Password must be at least 8 characters."
	}
	return ""
}

// Register handles new account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	if errMsg := validateRegistration(&req); errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	u, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Phone, req.Password, domain.UserRole(req.Role))
	if err != nil {
		log.Printf("[AuthHandler] Registration error: %v", err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, dtos.FromDomain(*u))
}

// Login validates credentials and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	u, token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Printf("[AuthHandler] Login error: %v", err)
		if errors.Is(err, user_services.ErrAccountLocked) {
			respondError(w, http.StatusForbidden, err.Error())
			return
		}
		respondError(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}

	respondJSON(w, http.StatusOK, dtos.LoginResponseDTO{
		User:  dtos.FromDomain(*u),
		Token: token,
	})
}
