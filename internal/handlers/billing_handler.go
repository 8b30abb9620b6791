// File: internal/handlers/billing_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/jucoreach/jucoreach/internal/dtos"
	"github.com/jucoreach/jucoreach/internal/middleware"
	"github.com/jucoreach/jucoreach/internal/services/billing"
)

// BillingHandler serves recruiter subscription upgrades.
type BillingHandler struct {
	billingService *billing.Service
}

func NewBillingHandler(billingService *billing.Service) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// StartCheckout opens a provider checkout session for the pro plan.
// POST /api/billing/checkout
func (h *BillingHandler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	session, err := h.billingService.StartCheckout(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrNotRecruiter):
			respondError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, billing.ErrAlreadyPro):
			respondError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("[BillingHandler] Checkout error for user %d: %v", userID, err)
			respondError(w, http.StatusBadGateway, "Failed to start checkout")
		}
		return
	}

	respondJSON(w, http.StatusOK, dtos.CheckoutResponseDTO{
		SessionID: session.SessionID,
		URL:       session.URL,
	})
}

// CompleteCheckout settles a session after the provider redirect.
// POST /api/billing/checkout/complete
func (h *BillingHandler) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	var req dtos.CompleteCheckoutRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.billingService.CompleteCheckout(r.Context(), req.SessionID); err != nil {
		if errors.Is(err, billing.ErrUnknownSession) {
			respondError(w, http.StatusNotFound, "Unknown checkout session")
			return
		}
		log.Printf("[BillingHandler] Complete checkout error for session %s: %v", req.SessionID, err)
		respondError(w, http.StatusInternalServerError, "Failed to complete checkout")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Subscription activated."})
}

// OpenPortal returns the provider's billing portal URL.
// POST /api/billing/portal
func (h *BillingHandler) OpenPortal(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	session, err := h.billingService.OpenPortal(r.Context(), userID)
	if err != nil {
		if errors.Is(err, billing.ErrNoBillingAccount) {
			respondError(w, http.StatusNotFound, "No billing account on file")
			return
		}
		log.Printf("[BillingHandler] Portal error for user %d: %v", userID, err)
		respondError(w, http.StatusBadGateway, "Failed to open billing portal")
		return
	}
	respondJSON(w, http.StatusOK, dtos.PortalResponseDTO{URL: session.URL})
}

// History lists the caller's payments.
// GET /api/billing/history
func (h *BillingHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	payments, err := h.billingService.History(r.Context(), userID)
	if err != nil {
		log.Printf("[BillingHandler] History error for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load payment history")
		return
	}
	respondJSON(w, http.StatusOK, dtos.FromPaymentSlice(payments))
}
