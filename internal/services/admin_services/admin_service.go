// File: internal/services/admin_services/admin_service.go
package admin_services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/repository/payment"
	"github.com/jucoreach/jucoreach/internal/repository/player"
	"github.com/jucoreach/jucoreach/internal/repository/user"
	"github.com/jucoreach/jucoreach/internal/repository/verification"
	"github.com/jucoreach/jucoreach/internal/services/verification_services"
)

// Logger interface for the admin service
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ReviewItem is one entry in the admin review queue: the pending record
// plus the account and profile the reviewer needs to judge it.
type ReviewItem struct {
	Record  domain.VerificationRecord `json:"record"`
	User    *domain.User              `json:"user"`
	Profile *domain.PlayerProfile     `json:"profile"`
}

// PlatformStats is the admin dashboard headline block.
type PlatformStats struct {
	Players        int64 `json:"players"`
	Recruiters     int64 `json:"recruiters"`
	Coaches        int64 `json:"coaches"`
	PendingReviews int64 `json:"pending_reviews"`
	VerifiedPlayers int64 `json:"verified_players"`
}

// AdminService backs the admin console: account management, the
// verification review queue, and finance reporting.
type AdminService struct {
	users        user.UserRepository
	profiles     player.PlayerRepository
	records      verification.VerificationRepository
	payments     payment.PaymentRepository
	verification *verification_services.VerificationService
	logger       Logger
}

func NewAdminService(
	users user.UserRepository,
	profiles player.PlayerRepository,
	records verification.VerificationRepository,
	payments payment.PaymentRepository,
	verificationSvc *verification_services.VerificationService,
	logger Logger,
) *AdminService {
	return &AdminService{
		users:        users,
		profiles:     profiles,
		records:      records,
		payments:     payments,
		verification: verificationSvc,
		logger:       logger,
	}
}

// ListUsers pages through accounts, optionally matched against username or
// email.
func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int, search string) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.users.FindAllWithPagination(ctx, pageSize, (page-1)*pageSize, search)
}

// DeleteUser removes an account. Admin accounts cannot be deleted through
// this path.
func (s *AdminService) DeleteUser(ctx context.Context, userID uint) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if u.Role == domain.RoleAdmin {
		return errors.New("admin accounts cannot be deleted")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info("user deleted by admin", "user_id", userID, "username", u.Username)
	return nil
}

// ReviewQueue lists records waiting on a decision, oldest first.
func (s *AdminService) ReviewQueue(ctx context.Context, page, pageSize int) ([]ReviewItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	records, total, err := s.records.FindByStatus(ctx, domain.VerificationInReview, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load review queue: %w", err)
	}

	items := make([]ReviewItem, 0, len(records))
	for _, rec := range records {
		item := ReviewItem{Record: rec}
		if u, err := s.users.FindByID(ctx, rec.UserID); err == nil {
			item.User = u
		}
		if profile, err := s.profiles.FindByUserID(ctx, rec.UserID); err == nil {
			item.Profile = profile
		}
		items = append(items, item)
	}
	return items, total, nil
}

// Decide approves or sends back one in-review submission.
func (s *AdminService) Decide(ctx context.Context, reviewerID, userID uint, approve bool, notes string) error {
	return s.verification.Review(ctx, reviewerID, userID, approve, notes)
}

// FinanceSummary aggregates the payment ledger.
func (s *AdminService) FinanceSummary(ctx context.Context) (*payment.FinanceSummary, error) {
	return s.payments.Summary(ctx)
}

// Stats fills the dashboard headline numbers.
func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	stats := &PlatformStats{}

	var err error
	if stats.Players, err = s.users.CountByRole(ctx, domain.RolePlayer); err != nil {
		return nil, fmt.Errorf("failed to count players: %w", err)
	}
	if stats.Recruiters, err = s.users.CountByRole(ctx, domain.RoleRecruiter); err != nil {
		return nil, fmt.Errorf("failed to count recruiters: %w", err)
	}
	if stats.Coaches, err = s.users.CountByRole(ctx, domain.RoleCoach); err != nil {
		return nil, fmt.Errorf("failed to count coaches: %w", err)
	}
	if stats.PendingReviews, err = s.records.CountByStatus(ctx, domain.VerificationInReview); err != nil {
		return nil, fmt.Errorf("failed to count pending reviews: %w", err)
	}
	if stats.VerifiedPlayers, err = s.records.CountByStatus(ctx, domain.VerificationVerified); err != nil {
		return nil, fmt.Errorf("failed to count verified players: %w", err)
	}
	return stats, nil
}
