// File: internal/services/sms/service.go
package sms

import "context"

// Logger matches the application logging interface without importing it.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service is what callers use: a provider wrapped with retries.
type Service interface {
	SendCode(ctx context.Context, phone, code string) error
}

type service struct {
	provider Provider
	retry    *RetryConfig
	logger   Logger
}

func NewService(provider Provider, retry *RetryConfig, logger Logger) Service {
	if retry == nil {
		retry = DefaultRetryConfig()
	}
	return &service{
		provider: provider,
		retry:    retry,
		logger:   logger,
	}
}

func (s *service) SendCode(ctx context.Context, phone, code string) error {
	err := RetryWithBackoff(ctx, s.retry, func(ctx context.Context) error {
		return s.provider.SendVerificationCode(ctx, phone, code)
	})
	if err != nil {
		s.logger.Error("sms code delivery failed", "error", err)
		return err
	}
	s.logger.Info("sms code delivered")
	return nil
}
