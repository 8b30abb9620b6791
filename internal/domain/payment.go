// File: internal/domain/payment.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks a checkout session from creation to settlement.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment records one checkout. Amounts use decimal to keep the finance
// aggregates exact.
type Payment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"user_id"`

	// SessionID is the billing provider's checkout session reference.
	SessionID string           `gorm:"uniqueIndex;size:128;not null" json:"session_id"`
	Plan      SubscriptionPlan `gorm:"size:20;not null" json:"plan"`
	Amount    decimal.Decimal  `gorm:"not null;default:0;type:decimal(10,2)" json:"amount"`
	Currency  string           `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Status    PaymentStatus    `gorm:"size:16;not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
