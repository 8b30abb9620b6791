// File: internal/services/email/service.go
package email

import (
	"context"
	"errors"
	"time"
)

type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type Service interface {
	SendCode(ctx context.Context, to, code string) error
}

type service struct {
	provider    Provider
	maxAttempts int
	retryDelay  time.Duration
	logger      Logger
}

func NewService(provider Provider, cfg *Config, logger Logger) Service {
	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &service{
		provider:    provider,
		maxAttempts: attempts,
		retryDelay:  delay,
		logger:      logger,
	}
}

func (s *service) SendCode(ctx context.Context, to, code string) error {
	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		lastErr = s.provider.SendVerificationCode(ctx, to, code)
		if lastErr == nil {
			s.logger.Info("email code delivered")
			return nil
		}

		var emailErr *EmailError
		if errors.As(lastErr, &emailErr) && !emailErr.Retryable() {
			s.logger.Error("email code delivery failed", "error", lastErr)
			return lastErr
		}

		if attempt < s.maxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryDelay):
			}
		}
	}

	s.logger.Error("email code delivery failed after retries", "error", lastErr, "attempts", s.maxAttempts)
	return lastErr
}
