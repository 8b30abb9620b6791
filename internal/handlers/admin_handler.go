// File: internal/handlers/admin_handler.go
package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jucoreach/jucoreach/internal/dtos"
	"github.com/jucoreach/jucoreach/internal/middleware"
	"github.com/jucoreach/jucoreach/internal/services/admin_services"
	"github.com/jucoreach/jucoreach/internal/services/verification_services"
)

type AdminHandler struct {
	adminService *admin_services.AdminService
}

func NewAdminHandler(adminService *admin_services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetAllUsersHandler fetches accounts with pagination and search.
// GET /api/admin/users
func (h *AdminHandler) GetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	search := query.Get("search")

	users, total, err := h.adminService.ListUsers(r.Context(), page, limit, search)
	if err != nil {
		log.Printf("[AdminHandler] Error getting all users: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve users")
		return
	}

	respondJSON(w, http.StatusOK, dtos.PaginatedResponse{
		Data: dtos.ToAdminUserSlice(users, time.Now()),
		Meta: dtos.NewPaginationMeta(page, limit, total),
	})
}

type userActionRequest struct {
	UserID uint `json:"userID"`
}

// DeleteUserHandler removes an account.
// DELETE /api/admin/users
func (h *AdminHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	var req userActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), req.UserID); err != nil {
		log.Printf("[AdminHandler] Error deleting user %d: %v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// ReviewQueueHandler lists submissions waiting on a decision.
// GET /api/admin/verification/queue
func (h *AdminHandler) ReviewQueueHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(query.Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	items, total, err := h.adminService.ReviewQueue(r.Context(), page, limit)
	if err != nil {
		log.Printf("[AdminHandler] Error loading review queue: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load review queue")
		return
	}

	respondJSON(w, http.StatusOK, dtos.PaginatedResponse{
		Data: items,
		Meta: dtos.NewPaginationMeta(page, limit, total),
	})
}

// ReviewDecisionHandler approves or sends back one submission.
// POST /api/admin/verification/review
func (h *AdminHandler) ReviewDecisionHandler(w http.ResponseWriter, r *http.Request) {
	reviewerID := middleware.UserIDFromContext(r.Context())

	var req dtos.ReviewDecisionRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.adminService.Decide(r.Context(), reviewerID, req.UserID, req.Approve, req.Notes); err != nil {
		if errors.Is(err, verification_services.ErrWrongStep) {
			respondError(w, http.StatusConflict, "Submission is not awaiting review")
			return
		}
		log.Printf("[AdminHandler] Error reviewing user %d: %v", req.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to record decision")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Decision recorded"})
}

// FinanceSummaryHandler aggregates the payment ledger.
// GET /api/admin/finance
func (h *AdminHandler) FinanceSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := h.adminService.FinanceSummary(r.Context())
	if err != nil {
		log.Printf("[AdminHandler] Error building finance summary: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to build finance summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// StatsHandler fills the dashboard headline numbers.
// GET /api/admin/stats
func (h *AdminHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		log.Printf("[AdminHandler] Error loading platform stats: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ExportUsersCSVHandler streams the full account list as CSV.
// GET /api/admin/users/export
func (h *AdminHandler) ExportUsersCSVHandler(w http.ResponseWriter, r *http.Request) {
	users, _, err := h.adminService.ListUsers(r.Context(), 1, 100, "")
	if err != nil {
		log.Printf("[AdminHandler] Error exporting users: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to export users")
		return
	}

	filename := fmt.Sprintf("users_export_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")

	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{"ID", "Username", "Email", "Role", "Plan", "FailedLoginAttempts", "CreatedAt"}
	if err := csvWriter.Write(header); err != nil {
		log.Printf("[AdminHandler] Error writing CSV header: %v", err)
		return
	}

	for _, u := range users {
		record := []string{
			strconv.FormatUint(uint64(u.ID), 10),
			u.Username,
			u.Email,
			string(u.Role),
			string(u.Plan),
			strconv.Itoa(u.FailedLoginAttempts),
			u.CreatedAt.Format(time.RFC3339),
		}
		if err := csvWriter.Write(record); err != nil {
			log.Printf("[AdminHandler] Error writing CSV record for user %d: %v", u.ID, err)
			return
		}
	}
	log.Printf("[AdminHandler] Successfully exported %d users to CSV.", len(users))
}
