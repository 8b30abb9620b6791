// File: internal/services/billing/errors.go
package billing

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type BillingError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *BillingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("billing %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("billing %s error: %s", e.Type, e.Message)
}
