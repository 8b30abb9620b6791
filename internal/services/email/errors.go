// File: internal/services/email/errors.go
package email

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeRateLimit  ErrorType = "RATE_LIMIT"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type EmailError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *EmailError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("email %s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("email %s error: %s", e.Type, e.Message)
}

func (e *EmailError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether another attempt could possibly succeed.
func (e *EmailError) Retryable() bool {
	return e.Type != ErrTypeConfig && e.Type != ErrTypeValidation
}
