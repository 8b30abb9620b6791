// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/jucoreach/jucoreach/internal/domain"
)

// UserResponseDTO defines what fields to expose in user API responses.
// Password hashes, lockout counters, and billing references stay internal.
type UserResponseDTO struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Plan            string `json:"plan"`
	PlanDisplayName string `json:"plan_display_name"`
	CreatedAt       string `json:"created_at"`
}

// RegisterRequestDTO represents the expected payload to create an account.
type RegisterRequestDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequestDTO represents the login payload.
type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponseDTO represents the login response.
type LoginResponseDTO struct {
	User  UserResponseDTO `json:"user"`
	Token string          `json:"token"`
}

// AdminUserResponseDTO includes lockout detail for the admin console.
type AdminUserResponseDTO struct {
	UserResponseDTO
	FailedLoginAttempts int  `json:"failed_login_attempts"`
	IsLocked            bool `json:"is_locked"`
}

// FromDomain maps a domain.User to UserResponseDTO for public responses.
func FromDomain(user domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		Role:            string(user.Role),
		Plan:            string(user.Plan),
		PlanDisplayName: user.PlanName(),
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
	}
}

// ToAdminUser maps a domain.User for admin endpoints.
func ToAdminUser(user domain.User, now time.Time) AdminUserResponseDTO {
	return AdminUserResponseDTO{
		UserResponseDTO:     FromDomain(user),
		FailedLoginAttempts: user.FailedLoginAttempts,
		IsLocked:            user.IsLocked(now),
	}
}

// ToAdminUserSlice maps a slice of users for the admin list endpoint.
func ToAdminUserSlice(users []domain.User, now time.Time) []AdminUserResponseDTO {
	out := make([]AdminUserResponseDTO, len(users))
	for i, u := range users {
		out[i] = ToAdminUser(u, now)
	}
	return out
}

// ErrorResponse is the uniform error body. RetryAfter is set only on 429s.
type ErrorResponse struct {
	Error      string `json:"error"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// PaginationMeta describes one page of a list response.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginatedResponse wraps list payloads with their paging metadata.
type PaginatedResponse struct {
	Data interface{}    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginationMeta computes the derived page count.
func NewPaginationMeta(page, perPage int, total int64) PaginationMeta {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return PaginationMeta{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}
