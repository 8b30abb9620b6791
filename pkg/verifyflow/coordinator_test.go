// File: pkg/verifyflow/coordinator_test.go
package verifyflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepFor(t *testing.T) {
	cases := []struct {
		status string
		step   int
	}{
		{StatusNone, 0},
		{StatusEmailPending, 0},
		{StatusPhonePending, 1},
		{StatusStatsPending, 2},
		{StatusNeedsUpdates, 2},
		{StatusInReview, 3},
		{StatusVerified, 4},
		{"garbage", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.step, StepFor(tc.status), "status %s", tc.status)
	}
}

func TestSplitSupportingFiles(t *testing.T) {
	assert.Equal(t,
		[]string{"http://a.com", "http://b.com"},
		SplitSupportingFiles("http://a.com\n\n  http://b.com  \n"))
	assert.Empty(t, SplitSupportingFiles(""))
	assert.Empty(t, SplitSupportingFiles("\n  \n\t\n"))
}

// stubServer fakes the verification API with scriptable responses.
type stubServer struct {
	*httptest.Server
	requests int64

	startStatus  int
	startBody    string
	gotAuth      string
	lastSnapshot map[string]interface{}
}

func newStubServer(t *testing.T) *stubServer {
	t.Helper()
	s := &stubServer{startStatus: http.StatusOK, startBody: `{"message":"sent"}`}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/verification/start", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.requests, 1)
		s.gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.startStatus)
		_, _ = w.Write([]byte(s.startBody))
	})
	mux.HandleFunc("/api/verification/email/confirm", s.confirmHandler("123456"))
	mux.HandleFunc("/api/verification/phone/send", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.requests, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"sent"}`))
	})
	mux.HandleFunc("/api/verification/phone/confirm", s.confirmHandler("654321"))
	mux.HandleFunc("/api/verification/stats", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.requests, 1)
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		s.lastSnapshot = payload
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"submitted"}`))
	})
	mux.HandleFunc("/api/verification/me", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.requests, 1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(State{
			Status:          StatusEmailPending,
			Step:            0,
			EmailRetryAfter: 37,
		})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *stubServer) confirmHandler(accept string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.requests, 1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body["code"] != accept {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"Invalid code"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"confirmed"}`))
	}
}

func newTestCoordinator(t *testing.T, s *stubServer) *Coordinator {
	t.Helper()
	client := NewClient(s.URL, StaticToken("test-token"), s.Client())
	c := NewCoordinator(client, 10*time.Millisecond)
	t.Cleanup(c.Close)
	return c
}

func TestCoordinator_HappyPathTransitions(t *testing.T) {
	s := newStubServer(t)
	c := newTestCoordinator(t, s)
	ctx := context.Background()

	assert.Equal(t, 0, c.Step())

	require.NoError(t, c.Start(ctx))
	assert.Equal(t, StatusEmailPending, c.Status())
	assert.Equal(t, 0, c.Step())
	assert.Equal(t, "Bearer test-token", s.gotAuth)

	require.NoError(t, c.ConfirmEmail(ctx, "123456"))
	assert.Equal(t, 1, c.Step())

	c.Phone = "+15550001111"
	require.NoError(t, c.SendPhoneCode(ctx))
	require.NoError(t, c.ConfirmPhone(ctx, "654321"))
	assert.Equal(t, 2, c.Step())

	c.Attested = true
	c.Snapshot = Snapshot{Stats: SeasonLine{Goals: 7}, GPA: 3.1}
	c.SupportingFiles = "http://a.com\n\nhttp://b.com\n"
	require.NoError(t, c.SubmitStats(ctx))
	assert.Equal(t, StatusInReview, c.Status())
	assert.Equal(t, 3, c.Step())

	files, ok := s.lastSnapshot["supportingFiles"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"http://a.com", "http://b.com"}, files)
}

func TestCoordinator_StartArmsDefaultCooldown(t *testing.T) {
	s := newStubServer(t)
	c := newTestCoordinator(t, s)

	require.NoError(t, c.Start(context.Background()))
	email, phone := c.Cooldowns()
	assert.Equal(t, DefaultSendCooldown, email)
	assert.Zero(t, phone)
}

func TestCoordinator_RateLimitUsesServerRetryAfter(t *testing.T) {
	s := newStubServer(t)
	s.startStatus = http.StatusTooManyRequests
	s.startBody = `{"error":"Please wait before requesting another code.","retryAfter":45}`
	c := newTestCoordinator(t, s)

	err := c.Start(context.Background())

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindRateLimited, ve.Kind)
	assert.Equal(t, 45, ve.RetryAfter)

	email, _ := c.Cooldowns()
	assert.Equal(t, 45, email, "cooldown replaced by the server's retryAfter")
}

func TestCoordinator_NonRateLimitFailureLeavesStateAlone(t *testing.T) {
	s := newStubServer(t)
	s.startStatus = http.StatusInternalServerError
	s.startBody = `{"error":"Something went wrong. Please try again."}`
	c := newTestCoordinator(t, s)

	err := c.Start(context.Background())

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindServer, ve.Kind)

	email, _ := c.Cooldowns()
	assert.Zero(t, email, "failed send must not start a cooldown")
	assert.Equal(t, StatusNone, c.Status(), "failed send must not advance the workflow")
}

func TestCoordinator_AttestationCheckedLocally(t *testing.T) {
	s := newStubServer(t)
	c := newTestCoordinator(t, s)

	c.Attested = false
	before := atomic.LoadInt64(&s.requests)
	err := c.SubmitStats(context.Background())

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindValidation, ve.Kind)
	assert.Equal(t, "You must certify your stats are accurate.", ve.Message)
	assert.Equal(t, before, atomic.LoadInt64(&s.requests), "no network call without attestation")
}

func TestCoordinator_InvalidCodeKind(t *testing.T) {
	s := newStubServer(t)
	c := newTestCoordinator(t, s)

	err := c.ConfirmEmail(context.Background(), "999999")

	var ve *Error
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindInvalidCode, ve.Kind)
	assert.Equal(t, StatusNone, c.Status(), "wrong code cannot advance the step")
}

func TestCoordinator_TickerCountsDown(t *testing.T) {
	s := newStubServer(t)
	c := newTestCoordinator(t, s)

	require.NoError(t, c.Start(context.Background()))

	require.Eventually(t, func() bool {
		email, _ := c.Cooldowns()
		return email < DefaultSendCooldown
	}, time.Second, 10*time.Millisecond, "ticker should decrement the cooldown")
}

func TestCoordinator_CloseZeroesCooldowns(t *testing.T) {
	s := newStubServer(t)
	c := newTestCoordinator(t, s)

	require.NoError(t, c.Start(context.Background()))
	c.Close()

	email, phone := c.Cooldowns()
	assert.Zero(t, email)
	assert.Zero(t, phone)

	// idempotent
	c.Close()
}

func TestCoordinator_RefreshRebuildsCooldownsFromServer(t *testing.T) {
	s := newStubServer(t)
	c := newTestCoordinator(t, s)

	state, err := c.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusEmailPending, state.Status)
	email, _ := c.Cooldowns()
	assert.Equal(t, 37, email, "reloaded client must not assume a zero cooldown")
}
