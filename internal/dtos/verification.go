// File: internal/dtos/verification.go
package dtos

import "github.com/jucoreach/jucoreach/internal/domain"

// ConfirmCodeRequestDTO carries a single emailed or texted code.
type ConfirmCodeRequestDTO struct {
	Code string `json:"code"`
}

// SendPhoneCodeRequestDTO starts the SMS challenge. Phone may be empty
// when a number is already on file.
type SendPhoneCodeRequestDTO struct {
	Phone string `json:"phone"`
}

// SubmitStatsRequestDTO is the attested stats submission payload.
type SubmitStatsRequestDTO struct {
	StatsSnapshot   StatsSnapshotDTO `json:"statsSnapshot"`
	Attested        bool             `json:"attested"`
	SupportingFiles []string         `json:"supportingFiles"`
}

// StatsSnapshotDTO mirrors the frozen stats line under review.
type StatsSnapshotDTO struct {
	Stats     domain.SeasonStats `json:"stats"`
	GPA       float64            `json:"gpa"`
	Positions []string           `json:"positions"`
}

func (dto StatsSnapshotDTO) ToDomain() domain.StatsSnapshot {
	return domain.StatsSnapshot{
		Stats:     dto.Stats,
		GPA:       dto.GPA,
		Positions: dto.Positions,
	}
}

// ReviewDecisionRequestDTO is the admin's verdict on one submission.
type ReviewDecisionRequestDTO struct {
	UserID  uint   `json:"user_id"`
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}
