// File: internal/domain/player.go
package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// SeasonStats is the athletic line recruiters filter on. Stored as a JSON
// column so a season can grow new fields without a migration.
type SeasonStats struct {
	Appearances   int `json:"appearances"`
	Starts        int `json:"starts"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	MinutesPlayed int `json:"minutes_played"`
	CleanSheets   int `json:"clean_sheets,omitempty"` // keepers and defenders
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
}

// PlayerProfile is the recruiting profile a player maintains. One per
// player-role user.
type PlayerProfile struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	FirstName string `gorm:"size:64" json:"first_name"`
	LastName  string `gorm:"size:64" json:"last_name"`
	College   string `gorm:"size:128;index" json:"college"`
	State     string `gorm:"size:2;index" json:"state"`
	GradYear  int    `gorm:"index" json:"grad_year"`

	// Positions is a comma separated list, e.g. "CM,CDM". Kept flat so the
	// directory filter can use a LIKE match.
	Positions    string  `gorm:"size:64" json:"positions"`
	HeightCM     int     `json:"height_cm"`
	GPA          float64 `gorm:"index" json:"gpa"`
	Bio          string  `gorm:"type:text" json:"bio"`
	HighlightURL string  `gorm:"size:512" json:"highlight_url"`

	// StatsJSON holds the current SeasonStats blob.
	StatsJSON string `gorm:"type:text" json:"-"`

	// Verified mirrors the verification record's terminal state so the
	// directory can filter without a join.
	Verified bool `gorm:"index;not null;default:false" json:"verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats decodes the stored stats blob. A profile with no stats yet returns
// the zero value.
func (p *PlayerProfile) Stats() (SeasonStats, error) {
	if p.StatsJSON == "" {
		return SeasonStats{}, nil
	}
	var s SeasonStats
	if err := json.Unmarshal([]byte(p.StatsJSON), &s); err != nil {
		return SeasonStats{}, err
	}
	return s, nil
}

// SetStats encodes and stores the stats blob.
func (p *PlayerProfile) SetStats(s SeasonStats) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	p.StatsJSON = string(raw)
	return nil
}

// SetPositions joins a slice into the flat positions column, dropping
// blanks.
func (p *PlayerProfile) SetPositions(positions []string) {
	cleaned := make([]string, 0, len(positions))
	for _, pos := range positions {
		if trimmed := strings.ToUpper(strings.TrimSpace(pos)); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	p.Positions = strings.Join(cleaned, ",")
}

// PositionList splits the flat positions column into a slice.
func (p *PlayerProfile) PositionList() []string {
	if p.Positions == "" {
		return nil
	}
	parts := strings.Split(p.Positions, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (p *PlayerProfile) IsValid() error {
	if p.UserID == 0 {
		return errors.New("profile must belong to a user")
	}
	if p.GPA < 0 || p.GPA > 5.0 {
		return errors.New("gpa out of range")
	}
	if p.GradYear != 0 && (p.GradYear < 2000 || p.GradYear > 2100) {
		return errors.New("grad year out of range")
	}
	return nil
}
