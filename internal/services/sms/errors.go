// File: internal/services/sms/errors.go
package sms

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeRateLimit  ErrorType = "RATE_LIMIT"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type SMSError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *SMSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sms %s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("sms %s error: %s", e.Type, e.Message)
}

func (e *SMSError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether another attempt could possibly succeed.
// Config and validation failures stay broken no matter how often retried.
func (e *SMSError) Retryable() bool {
	return e.Type != ErrTypeConfig && e.Type != ErrTypeValidation
}
