// File: internal/services/recruiter_services/favorite_service.go
package recruiter_services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/repository/favorite"
	"github.com/jucoreach/jucoreach/internal/repository/player"
)

var ErrPlayerNotFound = errors.New("player not found")

// Logger interface for the favorite service
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// FavoriteEntry pairs a saved favorite with the player profile it points
// at, so list responses need no second fetch.
type FavoriteEntry struct {
	Favorite domain.Favorite       `json:"favorite"`
	Profile  *domain.PlayerProfile `json:"profile"`
}

// FavoriteService manages a recruiter's shortlist of players.
type FavoriteService struct {
	favorites favorite.FavoriteRepository
	profiles  player.PlayerRepository
	logger    Logger
}

func NewFavoriteService(favorites favorite.FavoriteRepository, profiles player.PlayerRepository, logger Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, profiles: profiles, logger: logger}
}

// Add shortlists a player. Re-adding an existing favorite is idempotent.
func (s *FavoriteService) Add(ctx context.Context, recruiterID, playerProfileID uint) (*domain.Favorite, error) {
	if recruiterID == 0 || playerProfileID == 0 {
		return nil, errors.New("recruiter and player IDs must be provided")
	}

	if _, err := s.profiles.FindByID(ctx, playerProfileID); err != nil {
		if errors.Is(err, player.ErrProfileNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}

	fav, err := s.favorites.Save(ctx, &domain.Favorite{
		RecruiterID: recruiterID,
		PlayerID:    playerProfileID,
	})
	if err != nil {
		s.logger.Error("failed to save favorite", "error", err, "recruiter_id", recruiterID, "player_id", playerProfileID)
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}

	s.logger.Info("player favorited", "recruiter_id", recruiterID, "player_id", playerProfileID)
	return fav, nil
}

// Remove drops a player from the shortlist.
func (s *FavoriteService) Remove(ctx context.Context, recruiterID, playerProfileID uint) error {
	if err := s.favorites.Remove(ctx, recruiterID, playerProfileID); err != nil {
		if errors.Is(err, favorite.ErrFavoriteNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	s.logger.Info("favorite removed", "recruiter_id", recruiterID, "player_id", playerProfileID)
	return nil
}

// List returns the recruiter's shortlist with profiles attached. Favorites
// whose profile has since vanished are skipped rather than failing the
// whole list.
func (s *FavoriteService) List(ctx context.Context, recruiterID uint) ([]FavoriteEntry, error) {
	favs, err := s.favorites.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	entries := make([]FavoriteEntry, 0, len(favs))
	for _, fav := range favs {
		profile, err := s.profiles.FindByID(ctx, fav.PlayerID)
		if err != nil {
			if errors.Is(err, player.ErrProfileNotFound) {
				s.logger.Warn("favorite points at missing profile", "recruiter_id", recruiterID, "player_id", fav.PlayerID)
				continue
			}
			return nil, fmt.Errorf("failed to load favorited profile: %w", err)
		}
		entries = append(entries, FavoriteEntry{Favorite: fav, Profile: profile})
	}
	return entries, nil
}
