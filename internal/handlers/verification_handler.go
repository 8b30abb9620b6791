// File: internal/handlers/verification_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jucoreach/jucoreach/internal/dtos"
	"github.com/jucoreach/jucoreach/internal/middleware"
	"github.com/jucoreach/jucoreach/internal/services/verification_services"
)

// VerificationHandler exposes the player verification workflow. All routes
// assume the JWT middleware already ran.
type VerificationHandler struct {
	verificationService *verification_services.VerificationService
}

func NewVerificationHandler(verificationService *verification_services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// Start begins the workflow by sending the email code.
// POST /api/verification/start
func (h *VerificationHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.verificationService.StartEmail(r.Context(), userID); err != nil {
		h.respondServiceError(w, userID, "start", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Verification code sent to your email."})
}

// ConfirmEmail redeems the emailed code.
// POST /api/verification/email/confirm
func (h *VerificationHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req dtos.ConfirmCodeRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.verificationService.ConfirmEmail(r.Context(), userID, req.Code); err != nil {
		h.respondServiceError(w, userID, "email confirm", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Email confirmed."})
}

// SendPhoneCode dispatches the SMS code.
// POST /api/verification/phone/send
func (h *VerificationHandler) SendPhoneCode(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req dtos.SendPhoneCodeRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.verificationService.SendPhoneCode(r.Context(), userID, req.Phone); err != nil {
		h.respondServiceError(w, userID, "phone send", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Verification code sent by SMS."})
}

// ConfirmPhone redeems the SMS code.
// POST /api/verification/phone/confirm
func (h *VerificationHandler) ConfirmPhone(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req dtos.ConfirmCodeRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.verificationService.ConfirmPhone(r.Context(), userID, req.Code); err != nil {
		h.respondServiceError(w, userID, "phone confirm", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Phone confirmed."})
}

// SubmitStats accepts the attested stats snapshot for admin review.
// POST /api/verification/stats
func (h *VerificationHandler) SubmitStats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req dtos.SubmitStatsRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.verificationService.SubmitStats(r.Context(), userID, req.StatsSnapshot.ToDomain(), req.Attested, req.SupportingFiles)
	if err != nil {
		h.respondServiceError(w, userID, "stats submit", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Stats submitted for review."})
}

// Me returns the caller's verification state including per-channel resend
// cooldowns.
// GET /api/verification/me
func (h *VerificationHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	view, err := h.verificationService.Status(r.Context(), userID)
	if err != nil {
		log.Printf("[VerificationHandler] Status error for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load verification status")
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// respondServiceError maps workflow errors onto HTTP statuses. Cooldowns
// become 429s carrying retryAfter; code mismatches stay a generic 400.
func (h *VerificationHandler) respondServiceError(w http.ResponseWriter, userID uint, op string, err error) {
	var rateLimited *verification_services.RateLimitedError
	if errors.As(err, &rateLimited) {
		// Round up like the /me cooldown fields do. Truncating a sub-second
		// remainder would produce retryAfter 0 and drop the field from the
		// body entirely.
		seconds := int((rateLimited.RetryAfter + time.Second - 1) / time.Second)
		respondRateLimited(w, "Please wait before requesting another code.", seconds)
		return
	}

	switch {
	case errors.Is(err, verification_services.ErrInvalidCode):
		respondError(w, http.StatusBadRequest, "Invalid code")
	case errors.Is(err, verification_services.ErrTooManyAttempts):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, verification_services.ErrAttestationRequired):
		respondError(w, http.StatusBadRequest, "You must certify your stats are accurate.")
	case errors.Is(err, verification_services.ErrPhoneRequired):
		respondError(w, http.StatusBadRequest, "Phone number is required.")
	case errors.Is(err, verification_services.ErrWrongStep):
		respondError(w, http.StatusConflict, "This action is not available at your current verification step.")
	case errors.Is(err, verification_services.ErrAlreadyVerified):
		respondError(w, http.StatusConflict, "You are already verified.")
	default:
		log.Printf("[VerificationHandler] %s error for user %d: %v", op, userID, err)
		respondError(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}
