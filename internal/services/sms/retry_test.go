// File: internal/services/sms/retry_test.go
package sms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{MaxAttempts: 3, Delay: time.Millisecond}
}

func TestRetryWithBackoff_RecoversFromTransientFailure(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &SMSError{Type: ErrTypeNetwork, Message: "connection reset"}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		return &SMSError{Type: ErrTypeValidation, Message: "phone and code are required"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "validation failures must not be retried")
}

func TestRetryWithBackoff_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), fastRetryConfig(), func(ctx context.Context) error {
		calls++
		return &SMSError{Type: ErrTypeProvider, Code: 502, Message: "bad gateway"}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_HonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryWithBackoff(ctx, &RetryConfig{MaxAttempts: 5, Delay: time.Minute}, func(ctx context.Context) error {
		calls++
		cancel()
		return &SMSError{Type: ErrTypeNetwork, Message: "timeout"}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestSMSError_Retryable(t *testing.T) {
	assert.False(t, (&SMSError{Type: ErrTypeConfig}).Retryable())
	assert.False(t, (&SMSError{Type: ErrTypeValidation}).Retryable())
	assert.True(t, (&SMSError{Type: ErrTypeNetwork}).Retryable())
	assert.True(t, (&SMSError{Type: ErrTypeProvider}).Retryable())
	assert.True(t, (&SMSError{Type: ErrTypeRateLimit}).Retryable())
}
