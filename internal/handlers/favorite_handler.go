// File: internal/handlers/favorite_handler.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jucoreach/jucoreach/internal/dtos"
	"github.com/jucoreach/jucoreach/internal/middleware"
	"github.com/jucoreach/jucoreach/internal/repository/favorite"
	"github.com/jucoreach/jucoreach/internal/services/recruiter_services"
)

// FavoriteHandler serves the recruiter shortlist.
type FavoriteHandler struct {
	favoriteService *recruiter_services.FavoriteService
}

func NewFavoriteHandler(favoriteService *recruiter_services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Add shortlists a player.
// POST /api/favorites
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	recruiterID := middleware.UserIDFromContext(r.Context())

	var req dtos.FavoriteRequestDTO
	if !decodeBody(w, r, &req) {
		return
	}

	fav, err := h.favoriteService.Add(r.Context(), recruiterID, req.PlayerID)
	if err != nil {
		if errors.Is(err, recruiter_services.ErrPlayerNotFound) {
			respondError(w, http.StatusNotFound, "Player not found")
			return
		}
		log.Printf("[FavoriteHandler] Add error for recruiter %d: %v", recruiterID, err)
		respondError(w, http.StatusInternalServerError, "Failed to save favorite")
		return
	}
	respondJSON(w, http.StatusCreated, fav)
}

// Remove drops a player from the shortlist.
// DELETE /api/favorites/{playerID}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	recruiterID := middleware.UserIDFromContext(r.Context())

	playerID, err := strconv.ParseUint(mux.Vars(r)["playerID"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid player ID")
		return
	}

	if err := h.favoriteService.Remove(r.Context(), recruiterID, uint(playerID)); err != nil {
		if errors.Is(err, favorite.ErrFavoriteNotFound) {
			respondError(w, http.StatusNotFound, "Favorite not found")
			return
		}
		log.Printf("[FavoriteHandler] Remove error for recruiter %d: %v", recruiterID, err)
		respondError(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List returns the recruiter's shortlist with profiles attached.
// GET /api/favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	recruiterID := middleware.UserIDFromContext(r.Context())

	entries, err := h.favoriteService.List(r.Context(), recruiterID)
	if err != nil {
		log.Printf("[FavoriteHandler] List error for recruiter %d: %v", recruiterID, err)
		respondError(w, http.StatusInternalServerError, "Failed to list favorites")
		return
	}

	out := make([]dtos.FavoriteEntryDTO, len(entries))
	for i, entry := range entries {
		out[i] = dtos.FavoriteEntryDTO{
			ID:       entry.Favorite.ID,
			PlayerID: entry.Favorite.PlayerID,
			Profile:  dtos.FromProfile(*entry.Profile),
		}
	}
	respondJSON(w, http.StatusOK, out)
}
