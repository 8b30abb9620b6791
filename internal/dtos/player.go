// File: internal/dtos/player.go
package dtos

import (
	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/services/player_services"
)

// PlayerProfileDTO is the profile as the API exposes it. Positions come
// back as a slice even though storage keeps them flat.
type PlayerProfileDTO struct {
	ID           uint               `json:"id"`
	UserID       uint               `json:"user_id"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	College      string             `json:"college"`
	State        string             `json:"state"`
	GradYear     int                `json:"grad_year"`
	Positions    []string           `json:"positions"`
	HeightCM     int                `json:"height_cm"`
	GPA          float64            `json:"gpa"`
	Bio          string             `json:"bio"`
	HighlightURL string             `json:"highlight_url"`
	Stats        domain.SeasonStats `json:"stats"`
	Verified     bool               `json:"verified"`
}

// ProfileUpdateRequestDTO carries the editable profile fields.
type ProfileUpdateRequestDTO struct {
	FirstName    string              `json:"first_name"`
	LastName     string              `json:"last_name"`
	College      string              `json:"college"`
	State        string              `json:"state"`
	GradYear     int                 `json:"grad_year"`
	Positions    []string            `json:"positions"`
	HeightCM     int                 `json:"height_cm"`
	GPA          float64             `json:"gpa"`
	Bio          string              `json:"bio"`
	HighlightURL string              `json:"highlight_url"`
	Stats        *domain.SeasonStats `json:"stats,omitempty"`
}

func (dto ProfileUpdateRequestDTO) ToUpdate() player_services.ProfileUpdate {
	return player_services.ProfileUpdate{
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		College:      dto.College,
		State:        dto.State,
		GradYear:     dto.GradYear,
		Positions:    dto.Positions,
		HeightCM:     dto.HeightCM,
		GPA:          dto.GPA,
		Bio:          dto.Bio,
		HighlightURL: dto.HighlightURL,
		Stats:        dto.Stats,
	}
}

// FromProfile maps a domain profile to its API shape. Corrupt stats blobs
// degrade to the zero line rather than failing the response.
func FromProfile(p domain.PlayerProfile) PlayerProfileDTO {
	stats, _ := p.Stats()
	return PlayerProfileDTO{
		ID:           p.ID,
		UserID:       p.UserID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		College:      p.College,
		State:        p.State,
		GradYear:     p.GradYear,
		Positions:    p.PositionList(),
		HeightCM:     p.HeightCM,
		GPA:          p.GPA,
		Bio:          p.Bio,
		HighlightURL: p.HighlightURL,
		Stats:        stats,
		Verified:     p.Verified,
	}
}

// FromProfileSlice maps a directory page.
func FromProfileSlice(profiles []domain.PlayerProfile) []PlayerProfileDTO {
	out := make([]PlayerProfileDTO, len(profiles))
	for i, p := range profiles {
		out[i] = FromProfile(p)
	}
	return out
}

// FavoriteRequestDTO identifies the profile to shortlist.
type FavoriteRequestDTO struct {
	PlayerID uint `json:"player_id"`
}

// FavoriteEntryDTO is one shortlist row with its profile attached.
type FavoriteEntryDTO struct {
	ID       uint             `json:"id"`
	PlayerID uint             `json:"player_id"`
	Profile  PlayerProfileDTO `json:"profile"`
}
