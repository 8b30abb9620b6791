// File: internal/domain/favorite.go
package domain

import "time"

// Favorite is a recruiter's saved player. The pair is unique so saving
// twice is a no-op at the database level.
type Favorite struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecruiterID uint      `gorm:"uniqueIndex:idx_fav_recruiter_player;not null" json:"recruiter_id"`
	PlayerID    uint      `gorm:"uniqueIndex:idx_fav_recruiter_player;not null;index" json:"player_id"`
	Note        string    `gorm:"size:512" json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
