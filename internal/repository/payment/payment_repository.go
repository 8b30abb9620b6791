// File: internal/repository/payment/payment_repository.go
package payment

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jucoreach/jucoreach/internal/domain"
)

var ErrPaymentNotFound = errors.New("payment not found")

// FinanceSummary is the roll-up behind the admin finance dashboard.
type FinanceSummary struct {
	TotalRevenue  decimal.Decimal                             `json:"total_revenue"`
	PaymentCount  int64                                       `json:"payment_count"`
	PendingCount  int64                                       `json:"pending_count"`
	FailedCount   int64                                       `json:"failed_count"`
	RevenueByPlan map[domain.SubscriptionPlan]decimal.Decimal `json:"revenue_by_plan"`
}

// PaymentRepository handles checkout records and finance aggregates.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	ListByUser(ctx context.Context, userID uint) ([]domain.Payment, error)
	Summary(ctx context.Context) (*FinanceSummary, error)
}

type gormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepository{db: db}
}

func (r *gormPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment.UserID == 0 || payment.SessionID == "" {
		return nil, errors.New("user ID and session ID are required")
	}

	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		log.Printf("[PaymentRepository] Database error creating payment: %v", err)
		return nil, errors.New("database error creating payment")
	}
	return payment, nil
}

func (r *gormPaymentRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.Payment, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	var payment domain.Payment
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		log.Printf("[PaymentRepository] Database error finding payment: %v", err)
		return nil, errors.New("database error finding payment")
	}
	return &payment, nil
}

func (r *gormPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	if payment.ID == 0 {
		return errors.New("invalid payment ID")
	}
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		log.Printf("[PaymentRepository] Database error updating payment %d: %v", payment.ID, err)
		return errors.New("database error updating payment")
	}
	return nil
}

func (r *gormPaymentRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Payment, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&payments).Error
	if err != nil {
		log.Printf("[PaymentRepository] Database error listing payments for user %d: %v", userID, err)
		return nil, errors.New("database error listing payments")
	}
	return payments, nil
}

// Summary sums in Go with decimal rather than relying on float SQL
// aggregation, to keep cents exact across the sqlite driver.
func (r *gormPaymentRepository) Summary(ctx context.Context) (*FinanceSummary, error) {
	var payments []domain.Payment
	if err := r.db.WithContext(ctx).Find(&payments).Error; err != nil {
		log.Printf("[PaymentRepository] Database error loading payments for summary: %v", err)
		return nil, errors.New("database error building finance summary")
	}

	summary := &FinanceSummary{
		TotalRevenue:  decimal.Zero,
		RevenueByPlan: make(map[domain.SubscriptionPlan]decimal.Decimal),
	}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentSucceeded:
			summary.PaymentCount++
			summary.TotalRevenue = summary.TotalRevenue.Add(p.Amount)
			existing, ok := summary.RevenueByPlan[p.Plan]
			if !ok {
				existing = decimal.Zero
			}
			summary.RevenueByPlan[p.Plan] = existing.Add(p.Amount)
		case domain.PaymentPending:
			summary.PendingCount++
		case domain.PaymentFailed:
			summary.FailedCount++
		}
	}
	return summary, nil
}
