// File: internal/services/verification_services/verification_service.go
package verification_services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/repository/player"
	"github.com/jucoreach/jucoreach/internal/repository/user"
	"github.com/jucoreach/jucoreach/internal/repository/verification"
)

const (
	// ResendCooldown is the minimum gap between code sends on one channel.
	ResendCooldown = 60 * time.Second
	// CodeTTL is how long a dispatched code stays redeemable.
	CodeTTL = 10 * time.Minute
	// MaxCodeAttempts caps wrong guesses per dispatched code.
	MaxCodeAttempts = 5
)

var (
	ErrInvalidCode         = errors.New("invalid code")
	ErrTooManyAttempts     = errors.New("too many incorrect attempts, request a new code")
	ErrPhoneRequired       = errors.New("phone number is required")
	ErrAttestationRequired = errors.New("you must certify your stats are accurate")
	ErrWrongStep           = errors.New("action not available in the current verification status")
	ErrAlreadyVerified     = errors.New("player is already verified")
)

// RateLimitedError tells the handler to answer 429 with the number of
// seconds the client must wait.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting another code", int(e.RetryAfter.Seconds()))
}

// Logger interface for the verification service
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// CodeSender dispatches a verification code over one channel. Satisfied by
// both the email and sms services.
type CodeSender interface {
	SendCode(ctx context.Context, to, code string) error
}

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// StatusView is what GET /verification/me returns. Step is derived from
// Status on every read, never stored. RetryAfter fields let a reloaded
// client reconstruct accurate cooldowns instead of assuming zero.
type StatusView struct {
	Status          domain.VerificationStatus `json:"status"`
	Step            int                       `json:"step"`
	EmailConfirmed  bool                      `json:"email_confirmed"`
	Phone           string                    `json:"phone,omitempty"`
	PhoneConfirmed  bool                      `json:"phone_confirmed"`
	Attested        bool                      `json:"attested"`
	SupportingFiles []string                  `json:"supporting_files,omitempty"`
	Snapshot        *domain.StatsSnapshot     `json:"stats_snapshot,omitempty"`
	Review          *domain.ReviewOutcome     `json:"review,omitempty"`
	EmailRetryAfter int                       `json:"email_retry_after"`
	PhoneRetryAfter int                       `json:"phone_retry_after"`
}

// VerificationService owns every status transition of the player
// verification workflow. Handlers never mutate records directly.
type VerificationService struct {
	records     verification.VerificationRepository
	users       user.UserRepository
	players     player.PlayerRepository
	emailSender CodeSender
	smsSender   CodeSender
	logger      Logger

	// now is swappable so tests can control cooldown and expiry clocks.
	now func() time.Time
}

func NewVerificationService(
	records verification.VerificationRepository,
	users user.UserRepository,
	players player.PlayerRepository,
	emailSender CodeSender,
	smsSender CodeSender,
	logger Logger,
) *VerificationService {
	return &VerificationService{
		records:     records,
		users:       users,
		players:     players,
		emailSender: emailSender,
		smsSender:   smsSender,
		logger:      logger,
		now:         time.Now,
	}
}

// Status returns the player's current verification view. A player who has
// never started gets a synthetic "none" view rather than an error.
func (s *VerificationService) Status(ctx context.Context, userID uint) (*StatusView, error) {
	if userID == 0 {
		return nil, errors.New("user ID must be provided")
	}

	rec, err := s.records.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load verification record: %w", err)
	}
	if rec == nil {
		return &StatusView{
			Status: domain.VerificationNone,
			Step:   domain.StepForStatus(domain.VerificationNone),
		}, nil
	}

	snapshot, err := rec.Snapshot()
	if err != nil {
		s.logger.Error("corrupt stats snapshot", "error", err, "user_id", userID)
	}
	review, err := rec.Review()
	if err != nil {
		s.logger.Error("corrupt review outcome", "error", err, "user_id", userID)
	}

	return &StatusView{
		Status:          rec.Status,
		Step:            rec.Step(),
		EmailConfirmed:  rec.EmailConfirmed,
		Phone:           rec.PhoneNumber,
		PhoneConfirmed:  rec.PhoneConfirmed,
		Attested:        rec.Attested,
		SupportingFiles: rec.SupportingFiles(),
		Snapshot:        snapshot,
		Review:          review,
		EmailRetryAfter: s.retryAfterSeconds(rec.EmailLastSentAt),
		PhoneRetryAfter: s.retryAfterSeconds(rec.PhoneLastSentAt),
	}, nil
}

// StartEmail begins (or restarts) the email challenge. The record is
// created implicitly on first call.
func (s *VerificationService) StartEmail(ctx context.Context, userID uint) error {
	if userID == 0 {
		s.logger.Warn("email verification start attempted with invalid user ID")
		return errors.New("user ID must be provided")
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to find user for email verification", "error", err, "user_id", userID)
		return fmt.Errorf("failed to find user: %w", err)
	}

	rec, err := s.records.FindOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load verification record: %w", err)
	}

	if rec.Status == domain.VerificationVerified {
		return ErrAlreadyVerified
	}
	if rec.EmailConfirmed {
		return ErrWrongStep
	}

	if remaining := s.cooldownRemaining(rec.EmailLastSentAt); remaining > 0 {
		s.logger.Warn("email code send rate limited", "user_id", userID, "retry_after", remaining.Seconds())
		return &RateLimitedError{RetryAfter: remaining}
	}

	now := s.now()
	expires := now.Add(CodeTTL)
	code := s.generateCode()
	rec.EmailCode = code
	rec.EmailCodeExpiresAt = &expires
	rec.EmailLastSentAt = &now
	rec.EmailAttempts = 0
	if rec.Status.CanAdvanceTo(domain.VerificationEmailPending) {
		rec.Status = domain.VerificationEmailPending
	}

	if err := s.records.Update(ctx, rec); err != nil {
		s.logger.Error("failed to save email challenge", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save verification code: %w", err)
	}

	if err := s.emailSender.SendCode(ctx, u.Email, code); err != nil {
		s.logger.Error("email code dispatch failed", "error", err, "user_id", userID)
		return fmt.Errorf("failed to send email code: %w", err)
	}

	s.logger.Info("email verification code sent", "user_id", userID)
	return nil
}

// ConfirmEmail validates the emailed code. Mismatch and expiry both come
// back as ErrInvalidCode so the response does not leak which one happened.
func (s *VerificationService) ConfirmEmail(ctx context.Context, userID uint, code string) error {
	rec, err := s.loadPendingRecord(ctx, userID)
	if err != nil {
		return err
	}
	if rec.EmailConfirmed {
		return ErrWrongStep
	}

	if err := s.checkCode(rec.EmailCode, rec.EmailCodeExpiresAt, rec.EmailAttempts, code); err != nil {
		if errors.Is(err, ErrInvalidCode) {
			rec.EmailAttempts++
			if saveErr := s.records.Update(ctx, rec); saveErr != nil {
				s.logger.Error("failed to record code attempt", "error", saveErr, "user_id", userID)
			}
		}
		return err
	}

	rec.EmailConfirmed = true
	rec.EmailCode = ""
	rec.EmailCodeExpiresAt = nil
	rec.EmailAttempts = 0
	if rec.Status.CanAdvanceTo(domain.VerificationPhonePending) {
		rec.Status = domain.VerificationPhonePending
	}

	if err := s.records.Update(ctx, rec); err != nil {
		s.logger.Error("failed to save email confirmation", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save verification status: %w", err)
	}

	s.logger.Info("email confirmed", "user_id", userID)
	return nil
}

// SendPhoneCode dispatches an SMS challenge. A number must be present,
// either stored from a previous send or provided now.
func (s *VerificationService) SendPhoneCode(ctx context.Context, userID uint, phone string) error {
	rec, err := s.loadPendingRecord(ctx, userID)
	if err != nil {
		return err
	}
	if !rec.EmailConfirmed {
		return ErrWrongStep
	}
	if rec.PhoneConfirmed {
		return ErrWrongStep
	}

	if phone == "" {
		phone = rec.PhoneNumber
	}
	if phone == "" {
		return ErrPhoneRequired
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("%w: invalid format", ErrPhoneRequired)
	}

	if remaining := s.cooldownRemaining(rec.PhoneLastSentAt); remaining > 0 {
		s.logger.Warn("phone code send rate limited", "user_id", userID, "retry_after", remaining.Seconds())
		return &RateLimitedError{RetryAfter: remaining}
	}

	now := s.now()
	expires := now.Add(CodeTTL)
	code := s.generateCode()
	rec.PhoneNumber = phone
	rec.PhoneCode = code
	rec.PhoneCodeExpiresAt = &expires
	rec.PhoneLastSentAt = &now
	rec.PhoneAttempts = 0

	if err := s.records.Update(ctx, rec); err != nil {
		s.logger.Error("failed to save phone challenge", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save verification code: %w", err)
	}

	if err := s.smsSender.SendCode(ctx, phone, code); err != nil {
		s.logger.Error("sms code dispatch failed", "error", err, "user_id", userID)
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	s.logger.Info("phone verification code sent", "user_id", userID)
	return nil
}

// ConfirmPhone validates the SMS code and advances to the stats step.
func (s *VerificationService) ConfirmPhone(ctx context.Context, userID uint, code string) error {
	rec, err := s.loadPendingRecord(ctx, userID)
	if err != nil {
		return err
	}
	if !rec.EmailConfirmed || rec.PhoneConfirmed {
		return ErrWrongStep
	}

	if err := s.checkCode(rec.PhoneCode, rec.PhoneCodeExpiresAt, rec.PhoneAttempts, code); err != nil {
		if errors.Is(err, ErrInvalidCode) {
			rec.PhoneAttempts++
			if saveErr := s.records.Update(ctx, rec); saveErr != nil {
				s.logger.Error("failed to record code attempt", "error", saveErr, "user_id", userID)
			}
		}
		return err
	}

	rec.PhoneConfirmed = true
	rec.PhoneCode = ""
	rec.PhoneCodeExpiresAt = nil
	rec.PhoneAttempts = 0
	if rec.Status.CanAdvanceTo(domain.VerificationStatsPending) {
		rec.Status = domain.VerificationStatsPending
	}

	if err := s.records.Update(ctx, rec); err != nil {
		s.logger.Error("failed to save phone confirmation", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save verification status: %w", err)
	}

	s.logger.Info("phone confirmed", "user_id", userID)
	return nil
}

// SubmitStats stores the attested stats snapshot and moves the record into
// admin review. Works from both stats_pending and the needs_updates loop.
func (s *VerificationService) SubmitStats(ctx context.Context, userID uint, snapshot domain.StatsSnapshot, attested bool, supportingFiles []string) error {
	if !attested {
		return ErrAttestationRequired
	}

	rec, err := s.loadPendingRecord(ctx, userID)
	if err != nil {
		return err
	}
	if rec.Status != domain.VerificationStatsPending && rec.Status != domain.VerificationNeedsUpdates {
		return ErrWrongStep
	}

	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = s.now()
	}
	if err := rec.SetSnapshot(snapshot); err != nil {
		return fmt.Errorf("failed to encode stats snapshot: %w", err)
	}
	if err := rec.SetSupportingFiles(supportingFiles); err != nil {
		return fmt.Errorf("failed to encode supporting files: %w", err)
	}
	rec.Attested = true
	// A resubmission supersedes any earlier review decision.
	rec.ReviewOutcomeJSON = ""
	rec.Status = domain.VerificationInReview

	if err := s.records.Update(ctx, rec); err != nil {
		s.logger.Error("failed to save stats submission", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save stats submission: %w", err)
	}

	s.logger.Info("stats submitted for review", "user_id", userID, "supporting_files", len(supportingFiles))
	return nil
}

// Review decides an in_review record. Approval also flips the profile's
// directory-facing verified flag; a change request loops the player back to
// the stats step.
func (s *VerificationService) Review(ctx context.Context, reviewerID, userID uint, approve bool, notes string) error {
	if reviewerID == 0 {
		return errors.New("reviewer ID must be provided")
	}

	rec, err := s.loadPendingRecord(ctx, userID)
	if err != nil {
		return err
	}
	if rec.Status != domain.VerificationInReview {
		return ErrWrongStep
	}

	decision := domain.VerificationNeedsUpdates
	if approve {
		decision = domain.VerificationVerified
	}
	if !rec.Status.CanAdvanceTo(decision) {
		return ErrWrongStep
	}

	outcome := domain.ReviewOutcome{
		Decision:   decision,
		Notes:      notes,
		ReviewerID: reviewerID,
		ReviewedAt: s.now(),
	}
	if err := rec.SetReview(outcome); err != nil {
		return fmt.Errorf("failed to encode review outcome: %w", err)
	}
	rec.Status = decision

	if err := s.records.Update(ctx, rec); err != nil {
		s.logger.Error("failed to save review decision", "error", err, "user_id", userID)
		return fmt.Errorf("failed to save review decision: %w", err)
	}

	if approve {
		if err := s.players.SetVerified(ctx, userID, true); err != nil {
			// The record is authoritative; the profile flag is a mirror.
			s.logger.Warn("failed to mirror verified flag onto profile", "error", err, "user_id", userID)
		}
	}

	s.logger.Info("verification reviewed",
		"user_id", userID,
		"reviewer_id", reviewerID,
		"decision", decision)
	return nil
}

// loadPendingRecord fetches a record that must already exist.
func (s *VerificationService) loadPendingRecord(ctx context.Context, userID uint) (*domain.VerificationRecord, error) {
	if userID == 0 {
		return nil, errors.New("user ID must be provided")
	}

	rec, err := s.records.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load verification record: %w", err)
	}
	if rec == nil {
		return nil, ErrWrongStep
	}
	if rec.Status == domain.VerificationVerified {
		return nil, ErrAlreadyVerified
	}
	return rec, nil
}

// checkCode applies the attempt cap, expiry, and match checks in that
// order. Expiry and mismatch intentionally collapse into ErrInvalidCode.
func (s *VerificationService) checkCode(stored string, expiresAt *time.Time, attempts int, supplied string) error {
	if supplied == "" || len(supplied) != 6 {
		return ErrInvalidCode
	}
	if stored == "" {
		return ErrInvalidCode
	}
	if attempts >= MaxCodeAttempts {
		return ErrTooManyAttempts
	}
	if expiresAt == nil || s.now().After(*expiresAt) {
		return ErrInvalidCode
	}
	if stored != supplied {
		return ErrInvalidCode
	}
	return nil
}

func (s *VerificationService) cooldownRemaining(lastSentAt *time.Time) time.Duration {
	if lastSentAt == nil {
		return 0
	}
	elapsed := s.now().Sub(*lastSentAt)
	if elapsed >= ResendCooldown {
		return 0
	}
	return ResendCooldown - elapsed
}

func (s *VerificationService) retryAfterSeconds(lastSentAt *time.Time) int {
	remaining := s.cooldownRemaining(lastSentAt)
	if remaining <= 0 {
		return 0
	}
	// Round up so the client never retries a second early.
	return int((remaining + time.Second - 1) / time.Second)
}

// generateCode creates a 6-digit verification code
func (s *VerificationService) generateCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
