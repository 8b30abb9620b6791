// File: internal/services/sms/retry.go
package sms

import (
	"context"
	"errors"
	"time"
)

type RetryConfig struct {
	MaxAttempts int
	// Delay before the second attempt; doubles after each further failure.
	Delay time.Duration
}

func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts: 3,
		Delay:       500 * time.Millisecond,
	}
}

// RetryWithBackoff runs fn up to MaxAttempts times with a doubling delay
// between attempts. Errors the provider marks non-retryable stop
// immediately.
func RetryWithBackoff(ctx context.Context, config *RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := config.Delay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var smsErr *SMSError
		if errors.As(lastErr, &smsErr) && !smsErr.Retryable() {
			return lastErr
		}

		if attempt == config.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return lastErr
}
