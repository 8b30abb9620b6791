// File: internal/dtos/billing.go
package dtos

import (
	"time"

	"github.com/jucoreach/jucoreach/internal/domain"
)

// CheckoutResponseDTO hands the client the provider redirect URL.
type CheckoutResponseDTO struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PortalResponseDTO hands the client the billing portal URL.
type PortalResponseDTO struct {
	URL string `json:"url"`
}

// CompleteCheckoutRequestDTO settles a session after redirect.
type CompleteCheckoutRequestDTO struct {
	SessionID string `json:"session_id"`
}

// PaymentDTO is one ledger row in payment history responses.
type PaymentDTO struct {
	ID        uint   `json:"id"`
	SessionID string `json:"session_id"`
	Plan      string `json:"plan"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func FromPayment(p domain.Payment) PaymentDTO {
	return PaymentDTO{
		ID:        p.ID,
		SessionID: p.SessionID,
		Plan:      string(p.Plan),
		Amount:    p.Amount.StringFixed(2),
		Currency:  p.Currency,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func FromPaymentSlice(payments []domain.Payment) []PaymentDTO {
	out := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		out[i] = FromPayment(p)
	}
	return out
}
