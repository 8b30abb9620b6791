// File: internal/handlers/verification_handler_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/middleware"
	playerrepo "github.com/jucoreach/jucoreach/internal/repository/player"
	userrepo "github.com/jucoreach/jucoreach/internal/repository/user"
	verificationrepo "github.com/jucoreach/jucoreach/internal/repository/verification"
	"github.com/jucoreach/jucoreach/internal/services"
	"github.com/jucoreach/jucoreach/internal/services/verification_services"
)

type recordingSender struct {
	codes []string
}

func (r *recordingSender) SendCode(ctx context.Context, to, code string) error {
	r.codes = append(r.codes, code)
	return nil
}

// asUser stands in for the JWT middleware in tests.
func asUser(userID uint, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type verificationFixture struct {
	router *mux.Router
	email  *recordingSender
	sms    *recordingSender
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.PlayerProfile{}, &domain.VerificationRecord{}))

	users := userrepo.NewGormUserRepository(db)
	u := &domain.User{Username: "striker9", Email: "striker9@example.com", Role: domain.RolePlayer}
	require.NoError(t, u.HashPassword("hunter2hunter2"))
	_, err = users.Create(context.Background(), u)
	require.NoError(t, err)

	f := &verificationFixture{email: &recordingSender{}, sms: &recordingSender{}}

	svc := verification_services.NewVerificationService(
		verificationrepo.NewGormVerificationRepository(db),
		users,
		playerrepo.NewGormPlayerRepository(db),
		f.email,
		f.sms,
		&services.NoOpLogger{},
	)
	handler := NewVerificationHandler(svc)

	r := mux.NewRouter()
	r.Handle("/api/verification/start", asUser(u.ID, http.HandlerFunc(handler.Start))).Methods("POST")
	r.Handle("/api/verification/email/confirm", asUser(u.ID, http.HandlerFunc(handler.ConfirmEmail))).Methods("POST")
	r.Handle("/api/verification/phone/send", asUser(u.ID, http.HandlerFunc(handler.SendPhoneCode))).Methods("POST")
	r.Handle("/api/verification/phone/confirm", asUser(u.ID, http.HandlerFunc(handler.ConfirmPhone))).Methods("POST")
	r.Handle("/api/verification/stats", asUser(u.ID, http.HandlerFunc(handler.SubmitStats))).Methods("POST")
	r.Handle("/api/verification/me", asUser(u.ID, http.HandlerFunc(handler.Me))).Methods("GET")
	f.router = r
	return f
}

func (f *verificationFixture) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *verificationFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestStart_SendsCode(t *testing.T) {
	f := newVerificationFixture(t)

	rr := f.post(t, "/api/verification/start", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, f.email.codes, 1)
}

func TestStart_CooldownReturns429WithRetryAfter(t *testing.T) {
	f := newVerificationFixture(t)

	require.Equal(t, http.StatusOK, f.post(t, "/api/verification/start", nil).Code)
	rr := f.post(t, "/api/verification/start", nil)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	body := decodeMap(t, rr)
	assert.NotEmpty(t, body["error"])
	retryAfter, ok := body["retryAfter"].(float64)
	require.True(t, ok, "429 body must carry retryAfter")
	assert.Greater(t, retryAfter, float64(0))
	assert.LessOrEqual(t, retryAfter, float64(60))
}

func TestRateLimited_SubSecondRemainderRoundsUp(t *testing.T) {
	handler := &VerificationHandler{}

	rr := httptest.NewRecorder()
	handler.respondServiceError(rr, 1, "start",
		&verification_services.RateLimitedError{RetryAfter: 900 * time.Millisecond})

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))

	body := decodeMap(t, rr)
	assert.NotEmpty(t, body["error"])
	assert.Equal(t, float64(1), body["retryAfter"], "sub-second cooldown must not truncate to zero")

	rr = httptest.NewRecorder()
	handler.respondServiceError(rr, 1, "start",
		&verification_services.RateLimitedError{RetryAfter: 45 * time.Second})
	assert.Equal(t, "45", rr.Header().Get("Retry-After"))
	assert.Equal(t, float64(45), decodeMap(t, rr)["retryAfter"])
}

func TestConfirmEmail_WrongCodeIsGeneric400(t *testing.T) {
	f := newVerificationFixture(t)
	require.Equal(t, http.StatusOK, f.post(t, "/api/verification/start", nil).Code)

	guess := "000000"
	if f.email.codes[0] == guess {
		guess = "000001"
	}
	rr := f.post(t, "/api/verification/email/confirm", map[string]string{"code": guess})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid code", decodeMap(t, rr)["error"])
}

func TestSubmitStats_AttestationGate(t *testing.T) {
	f := newVerificationFixture(t)
	walkToStatsStep(t, f)

	rr := f.post(t, "/api/verification/stats", map[string]interface{}{
		"statsSnapshot": map[string]interface{}{"stats": map[string]int{"goals": 7}, "gpa": 3.1},
		"attested":      false,
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "You must certify your stats are accurate.", decodeMap(t, rr)["error"])
}

func TestSubmitStats_MovesToReview(t *testing.T) {
	f := newVerificationFixture(t)
	walkToStatsStep(t, f)

	rr := f.post(t, "/api/verification/stats", map[string]interface{}{
		"statsSnapshot":   map[string]interface{}{"stats": map[string]int{"goals": 7}, "gpa": 3.1, "positions": []string{"ST"}},
		"attested":        true,
		"supportingFiles": []string{"http://a.com", "http://b.com"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	me := decodeMap(t, f.get(t, "/api/verification/me"))
	assert.Equal(t, "in_review", me["status"])
	assert.Equal(t, float64(3), me["step"])
}

func TestMe_ReportsStepAndCooldown(t *testing.T) {
	f := newVerificationFixture(t)

	me := decodeMap(t, f.get(t, "/api/verification/me"))
	assert.Equal(t, "none", me["status"])
	assert.Equal(t, float64(0), me["step"])

	require.Equal(t, http.StatusOK, f.post(t, "/api/verification/start", nil).Code)
	me = decodeMap(t, f.get(t, "/api/verification/me"))
	assert.Equal(t, "email_pending", me["status"])
	retryAfter, ok := me["email_retry_after"].(float64)
	require.True(t, ok)
	assert.Greater(t, retryAfter, float64(0))
}

func TestWrongStepIsConflict(t *testing.T) {
	f := newVerificationFixture(t)

	// phone send before the email step is done
	rr := f.post(t, "/api/verification/phone/send", map[string]string{"phone": "+15550001111"})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

// walkToStatsStep completes the email and phone challenges.
func walkToStatsStep(t *testing.T, f *verificationFixture) {
	t.Helper()

	require.Equal(t, http.StatusOK, f.post(t, "/api/verification/start", nil).Code)
	require.Equal(t, http.StatusOK,
		f.post(t, "/api/verification/email/confirm", map[string]string{"code": f.email.codes[0]}).Code)
	require.Equal(t, http.StatusOK,
		f.post(t, "/api/verification/phone/send", map[string]string{"phone": "+15550001111"}).Code)
	require.Equal(t, http.StatusOK,
		f.post(t, "/api/verification/phone/confirm", map[string]string{"code": f.sms.codes[0]}).Code)
}
