// File: internal/handlers/player_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jucoreach/jucoreach/internal/dtos"
	"github.com/jucoreach/jucoreach/internal/middleware"
	"github.com/jucoreach/jucoreach/internal/repository/player"
	"github.com/jucoreach/jucoreach/internal/services/player_services"
)

// PlayerHandler serves player profile management and the recruiter-facing
// directory.
type PlayerHandler struct {
	profileService *player_services.ProfileService
}

func NewPlayerHandler(profileService *player_services.ProfileService) *PlayerHandler {
	return &PlayerHandler{profileService: profileService}
}

// GetMyProfile returns (and lazily creates) the caller's profile.
// GET /api/players/me
func (h *PlayerHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		log.Printf("[PlayerHandler] Error loading profile for user %d: %v", userID, err)
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	respondJSON(w, http.StatusOK, dtos.FromProfile(*profile))
}

// UpdateMyProfile applies profile edits.
// PUT /api/players/me
func (h *PlayerHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req dtos.ProfileUpdateRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := h.profileService.Update(r.Context(), userID, req.ToUpdate())
	if err != nil {
		log.Printf("[PlayerHandler] Error updating profile for user %d: %v", userID, err)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, dtos.FromProfile(*profile))
}

// Directory runs the filtered player search for recruiters.
// GET /api/players
func (h *PlayerHandler) Directory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(query.Get("limit"))
	if err != nil || perPage < 1 {
		perPage = 20
	}

	filter := player.DirectoryFilter{
		Position:     query.Get("position"),
		State:        query.Get("state"),
		College:      query.Get("college"),
		VerifiedOnly: query.Get("verified") == "true",
	}
	if year, err := strconv.Atoi(query.Get("grad_year")); err == nil {
		filter.GradYear = year
	}
	if gpa, err := strconv.ParseFloat(query.Get("min_gpa"), 64); err == nil {
		filter.MinGPA = gpa
	}

	profiles, total, err := h.profileService.Directory(r.Context(), filter, page, perPage)
	if err != nil {
		log.Printf("[PlayerHandler] Directory error: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to search players")
		return
	}

	respondJSON(w, http.StatusOK, dtos.PaginatedResponse{
		Data: dtos.FromProfileSlice(profiles),
		Meta: dtos.NewPaginationMeta(page, perPage, total),
	})
}

// GetProfile returns one public profile by ID.
// GET /api/players/{id}
func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	profile, err := h.profileService.GetPublic(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, player.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, "Player not found")
			return
		}
		log.Printf("[PlayerHandler] Error loading profile %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	respondJSON(w, http.StatusOK, dtos.FromProfile(*profile))
}
