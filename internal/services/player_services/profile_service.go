// File: internal/services/player_services/profile_service.go
package player_services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/repository/player"
)

// Logger interface for the profile service
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// ProfileUpdate carries the writable fields of a player profile. Verified
// is deliberately absent; only the review workflow flips it.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	College   string
	State     string
	GradYear  int
	GPA          float64
	Positions    []string
	HeightCM     int
	Bio          string
	HighlightURL string
	Stats        *domain.SeasonStats
}

// ProfileService manages player profiles and the recruiter-facing
// directory.
type ProfileService struct {
	profiles player.PlayerRepository
	logger   Logger
}

func NewProfileService(profiles player.PlayerRepository, logger Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// Get returns the player's own profile, creating an empty one on first
// access so new accounts always have something to edit.
func (s *ProfileService) Get(ctx context.Context, userID uint) (*domain.PlayerProfile, error) {
	if userID == 0 {
		return nil, errors.New("user ID must be provided")
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, player.ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	created, err := s.profiles.Create(ctx, &domain.PlayerProfile{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	s.logger.Info("player profile created", "user_id", userID)
	return created, nil
}

// Update applies the writable fields and persists.
func (s *ProfileService) Update(ctx context.Context, userID uint, update ProfileUpdate) (*domain.PlayerProfile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.FirstName = strings.TrimSpace(update.FirstName)
	profile.LastName = strings.TrimSpace(update.LastName)
	profile.College = strings.TrimSpace(update.College)
	profile.State = strings.ToUpper(strings.TrimSpace(update.State))
	profile.GradYear = update.GradYear
	profile.GPA = update.GPA
	profile.HeightCM = update.HeightCM
	profile.Bio = update.Bio
	profile.HighlightURL = strings.TrimSpace(update.HighlightURL)
	profile.SetPositions(update.Positions)
	if update.Stats != nil {
		if err := profile.SetStats(*update.Stats); err != nil {
			return nil, fmt.Errorf("failed to encode stats: %w", err)
		}
	}

	if err := profile.IsValid(); err != nil {
		return nil, err
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		s.logger.Error("failed to save profile", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("player profile updated", "user_id", userID)
	return profile, nil
}

// Directory runs a filtered, paginated search over player profiles.
func (s *ProfileService) Directory(ctx context.Context, filter player.DirectoryFilter, page, pageSize int) ([]domain.PlayerProfile, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize
	return s.profiles.Directory(ctx, filter, pageSize, offset)
}

// GetPublic returns a profile by its row ID for recruiter views.
func (s *ProfileService) GetPublic(ctx context.Context, profileID uint) (*domain.PlayerProfile, error) {
	return s.profiles.FindByID(ctx, profileID)
}
