// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		WindowSize:    time.Minute,
		MaxAttempts:   3,
		CleanupPeriod: time.Hour,
		BanDuration:   time.Minute,
	}
}

func TestAllow_UnderLimit(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	for i := 0; i < 3; i++ {
		allowed, info := rl.Allow("auth:10.0.0.1")
		require.True(t, allowed, "attempt %d should pass", i+1)
		assert.Equal(t, 3-(i+1), info.Remaining)
		assert.False(t, info.Banned)
	}
}

func TestAllow_BansOverLimit(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	for i := 0; i < 3; i++ {
		rl.Allow("auth:10.0.0.1")
	}

	allowed, info := rl.Allow("auth:10.0.0.1")
	require.False(t, allowed)
	assert.True(t, info.Banned)
	assert.Greater(t, info.RetryAfter, time.Duration(0))

	// still banned on the next attempt
	allowed, info = rl.Allow("auth:10.0.0.1")
	assert.False(t, allowed)
	assert.True(t, info.Banned)
}

func TestAllow_IdentifiersAreIndependent(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	for i := 0; i < 4; i++ {
		rl.Allow("auth:10.0.0.1")
	}

	allowed, _ := rl.Allow("auth:10.0.0.2")
	assert.True(t, allowed)
}

func TestRecordSuccess_ResetsCounter(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	rl.Allow("auth:10.0.0.1")
	rl.Allow("auth:10.0.0.1")
	rl.RecordSuccess("auth:10.0.0.1")

	allowed, info := rl.Allow("auth:10.0.0.1")
	require.True(t, allowed)
	assert.Equal(t, 2, info.Remaining)
}

func TestAllow_WindowExpiryResets(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	rl.Allow("auth:10.0.0.1")
	rl.Allow("auth:10.0.0.1")
	rl.Allow("auth:10.0.0.1")

	// age the record past the window
	rl.mu.Lock()
	rl.attempts["auth:10.0.0.1"].FirstSeen = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	allowed, info := rl.Allow("auth:10.0.0.1")
	require.True(t, allowed)
	assert.Equal(t, 2, info.Remaining)
}

func TestCleanup_DropsStaleRecords(t *testing.T) {
	rl := NewMemoryRateLimiter(testConfig())
	defer rl.Close()

	rl.Allow("auth:10.0.0.1")

	rl.mu.Lock()
	rl.attempts["auth:10.0.0.1"].FirstSeen = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	rl.cleanup()

	rl.mu.Lock()
	_, exists := rl.attempts["auth:10.0.0.1"]
	rl.mu.Unlock()
	assert.False(t, exists)
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", GetClientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	assert.Equal(t, "198.51.100.4", GetClientIP(r))
}
