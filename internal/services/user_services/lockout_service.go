// File: internal/services/user_services/lockout_service.go
package user_services

import (
	"context"
	"fmt"
	"time"

	"github.com/jucoreach/jucoreach/internal/repository/user"
)

const (
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
)

// LockoutService handles account security and brute force protection
type LockoutService struct {
	userRepo user.UserRepository
	logger   Logger
}

func NewLockoutService(userRepo user.UserRepository, logger Logger) *LockoutService {
	return &LockoutService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// RecordFailedAttempt records a failed login attempt and may lock the account
func (s *LockoutService) RecordFailedAttempt(ctx context.Context, userID uint) error {
	if userID == 0 {
		s.logger.Warn("failed attempt recorded with invalid user ID")
		return fmt.Errorf("user ID is required")
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to find user for failed attempt recording",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to find user: %w", err)
	}

	u.FailedLoginAttempts++
	now := time.Now()
	u.LastFailedLoginAt = &now

	s.logger.Warn("failed login attempt recorded",
		"user_id", u.ID,
		"attempts", u.FailedLoginAttempts,
		"max_attempts", MaxFailedAttempts)

	if u.FailedLoginAttempts >= MaxFailedAttempts {
		lockUntil := now.Add(LockoutDuration)
		u.LockedUntil = &lockUntil

		s.logger.Error("account locked due to excessive failed attempts",
			"user_id", u.ID,
			"attempts", u.FailedLoginAttempts,
			"locked_until", lockUntil.Format(time.RFC3339))
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		s.logger.Error("failed to update failed login attempts",
			"error", err,
			"user_id", u.ID)
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// ClearFailedAttempts clears failed login attempts after successful login
func (s *LockoutService) ClearFailedAttempts(ctx context.Context, userID uint) error {
	if userID == 0 {
		s.logger.Warn("clear failed attempts attempted with invalid user ID", "user_id", userID)
		return fmt.Errorf("user ID is required")
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to find user for clearing attempts",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to find user: %w", err)
	}

	if u.FailedLoginAttempts == 0 && u.LockedUntil == nil {
		return nil
	}

	wasLocked := u.IsLocked(time.Now())
	u.FailedLoginAttempts = 0
	u.LastFailedLoginAt = nil
	u.LockedUntil = nil

	if err := s.userRepo.Update(ctx, u); err != nil {
		s.logger.Error("failed to clear failed attempts",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("failed login attempts cleared",
		"user_id", userID,
		"was_locked", wasLocked)

	return nil
}
