// File: internal/services/sms/interface.go
package sms

import "context"

type Provider interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
}
