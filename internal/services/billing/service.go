// File: internal/services/billing/service.go
package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/repository/payment"
	"github.com/jucoreach/jucoreach/internal/repository/user"
)

var (
	ErrNotRecruiter     = errors.New("billing is only available to recruiter accounts")
	ErrAlreadyPro       = errors.New("account is already on the pro plan")
	ErrNoBillingAccount = errors.New("no billing account on file")
	ErrUnknownSession   = errors.New("unknown checkout session")
)

// proMonthlyAmount mirrors the price configured at the billing provider so
// finance summaries work without a provider round trip.
var proMonthlyAmount = decimal.NewFromInt(29)

// Logger interface for the billing service
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service drives recruiter subscription upgrades against the provider and
// keeps the local payment ledger in sync.
type Service struct {
	provider Provider
	payments payment.PaymentRepository
	users    user.UserRepository
	config   *Config
	logger   Logger
}

func NewService(provider Provider, payments payment.PaymentRepository, users user.UserRepository, config *Config, logger Logger) *Service {
	return &Service{
		provider: provider,
		payments: payments,
		users:    users,
		config:   config,
		logger:   logger,
	}
}

// StartCheckout opens a provider checkout session for the pro plan and
// records a pending payment keyed by the session ID.
func (s *Service) StartCheckout(ctx context.Context, userID uint) (*CheckoutSession, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if u.Role != domain.RoleRecruiter && u.Role != domain.RoleCoach {
		return nil, ErrNotRecruiter
	}
	if u.Plan == domain.PlanPro {
		return nil, ErrAlreadyPro
	}

	session, err := s.provider.CreateCheckoutSession(ctx, u.Email, s.config.ProPriceID)
	if err != nil {
		s.logger.Error("checkout session creation failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	p := &domain.Payment{
		UserID:    userID,
		SessionID: session.SessionID,
		Plan:      domain.PlanPro,
		Amount:    proMonthlyAmount,
		Currency:  "USD",
		Status:    domain.PaymentPending,
	}
	if _, err := s.payments.Create(ctx, p); err != nil {
		s.logger.Error("failed to record pending payment", "error", err, "user_id", userID, "session_id", session.SessionID)
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.logger.Info("checkout session created", "user_id", userID, "session_id", session.SessionID)
	return session, nil
}

// CompleteCheckout settles a session after the provider redirects back.
// Completing twice is a no-op.
func (s *Service) CompleteCheckout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrUnknownSession
	}

	p, err := s.payments.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return ErrUnknownSession
		}
		return fmt.Errorf("failed to find payment: %w", err)
	}
	if p.Status == domain.PaymentSucceeded {
		return nil
	}

	p.Status = domain.PaymentSucceeded
	if err := s.payments.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to settle payment: %w", err)
	}

	u, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to find user for upgrade: %w", err)
	}
	u.Plan = p.Plan
	if u.BillingCustomerID == "" {
		u.BillingCustomerID = sessionID
	}
	if err := s.users.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to upgrade plan: %w", err)
	}

	s.logger.Info("subscription activated", "user_id", p.UserID, "plan", p.Plan)
	return nil
}

// OpenPortal returns the provider's self-serve management portal URL.
func (s *Service) OpenPortal(ctx context.Context, userID uint) (*PortalSession, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if u.BillingCustomerID == "" {
		return nil, ErrNoBillingAccount
	}

	session, err := s.provider.CreatePortalSession(ctx, u.BillingCustomerID)
	if err != nil {
		s.logger.Error("portal session creation failed", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}
	return session, nil
}

// History lists the user's own payments, newest first.
func (s *Service) History(ctx context.Context, userID uint) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}
