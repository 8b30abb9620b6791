// File: internal/domain/verification.go
package domain

import (
	"encoding/json"
	"time"
)

// VerificationStatus is the single source of truth for where a player is in
// the identity/stats verification workflow. Every other view of progress
// (the UI step, button gating) is derived from it.
type VerificationStatus string

const (
	VerificationNone         VerificationStatus = "none"
	VerificationEmailPending VerificationStatus = "email_pending"
	VerificationPhonePending VerificationStatus = "phone_pending"
	VerificationStatsPending VerificationStatus = "stats_pending"
	VerificationInReview     VerificationStatus = "in_review"
	VerificationNeedsUpdates VerificationStatus = "needs_updates"
	VerificationVerified     VerificationStatus = "verified"
)

// StepForStatus maps a status to its UI step index. Pure function, always
// re-derivable from status alone so a reload never loses the player's place.
//
//	0: email, 1: phone, 2: stats, 3: review, 4: done
func StepForStatus(s VerificationStatus) int {
	switch s {
	case VerificationNone, VerificationEmailPending:
		return 0
	case VerificationPhonePending:
		return 1
	case VerificationStatsPending, VerificationNeedsUpdates:
		return 2
	case VerificationInReview:
		return 3
	case VerificationVerified:
		return 4
	default:
		return 0
	}
}

// statusRank orders statuses for the monotonic-forward invariant.
// needs_updates ranks with stats_pending because it loops back to that step.
var statusRank = map[VerificationStatus]int{
	VerificationNone:         0,
	VerificationEmailPending: 1,
	VerificationPhonePending: 2,
	VerificationStatsPending: 3,
	VerificationNeedsUpdates: 3,
	VerificationInReview:     4,
	VerificationVerified:     5,
}

// CanAdvanceTo reports whether moving from s to next is a legal transition.
// Forward moves are allowed; the only backward move is the admin sending an
// in_review record back to needs_updates.
func (s VerificationStatus) CanAdvanceTo(next VerificationStatus) bool {
	if s == VerificationInReview && next == VerificationNeedsUpdates {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// StatsSnapshot is the immutable copy of a player's stats, GPA, and
// positions captured at submission time for reviewer reference. Once
// submitted it is never rewritten in place; a resubmission replaces it
// wholesale.
type StatsSnapshot struct {
	Stats     SeasonStats `json:"stats"`
	GPA       float64     `json:"gpa"`
	Positions []string    `json:"positions"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ReviewOutcome is populated only when an admin decides an in_review record.
type ReviewOutcome struct {
	Decision   VerificationStatus `json:"decision"` // verified | needs_updates
	Notes      string             `json:"notes,omitempty"`
	ReviewerID uint               `json:"reviewer_id"`
	ReviewedAt time.Time          `json:"reviewed_at"`
}

// VerificationRecord holds all workflow state for one player. Created
// implicitly on the first start-email call.
type VerificationRecord struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	Status VerificationStatus `gorm:"size:20;not null;default:'none';index" json:"status"`

	// Email channel state. The code fields never leave the server.
	EmailConfirmed     bool       `json:"email_confirmed"`
	EmailCode          string     `gorm:"size:10" json:"-"`
	EmailCodeExpiresAt *time.Time `json:"-"`
	EmailLastSentAt    *time.Time `json:"-"`
	EmailAttempts      int        `gorm:"not null;default:0" json:"-"`

	// Phone channel state. A number must be present before a code can go out.
	PhoneNumber        string     `gorm:"size:20" json:"phone_number"`
	PhoneConfirmed     bool       `json:"phone_confirmed"`
	PhoneCode          string     `gorm:"size:10" json:"-"`
	PhoneCodeExpiresAt *time.Time `json:"-"`
	PhoneLastSentAt    *time.Time `json:"-"`
	PhoneAttempts      int        `gorm:"not null;default:0" json:"-"`

	// Submission payload, JSON-encoded.
	SnapshotJSON        string     `gorm:"type:text" json:"-"`
	SnapshotUpdatedAt   *time.Time `json:"snapshot_updated_at,omitempty"`
	Attested            bool       `json:"attested"`
	SupportingFilesJSON string     `gorm:"type:text" json:"-"`

	// Review decision, JSON-encoded ReviewOutcome or empty.
	ReviewOutcomeJSON string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot decodes the stored stats snapshot, or nil if none was submitted.
func (v *VerificationRecord) Snapshot() (*StatsSnapshot, error) {
	if v.SnapshotJSON == "" {
		return nil, nil
	}
	var snap StatsSnapshot
	if err := json.Unmarshal([]byte(v.SnapshotJSON), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SetSnapshot replaces the stored snapshot.
func (v *VerificationRecord) SetSnapshot(snap StatsSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	v.SnapshotJSON = string(raw)
	v.SnapshotUpdatedAt = &snap.UpdatedAt
	return nil
}

// SupportingFiles decodes the stored file URL list. Order is preserved and
// duplicates are not collapsed.
func (v *VerificationRecord) SupportingFiles() []string {
	if v.SupportingFilesJSON == "" {
		return nil
	}
	var files []string
	if err := json.Unmarshal([]byte(v.SupportingFilesJSON), &files); err != nil {
		return nil
	}
	return files
}

// SetSupportingFiles replaces the stored file URL list.
func (v *VerificationRecord) SetSupportingFiles(files []string) error {
	raw, err := json.Marshal(files)
	if err != nil {
		return err
	}
	v.SupportingFilesJSON = string(raw)
	return nil
}

// Review decodes the stored review outcome, or nil if the record has not
// been decided.
func (v *VerificationRecord) Review() (*ReviewOutcome, error) {
	if v.ReviewOutcomeJSON == "" {
		return nil, nil
	}
	var outcome ReviewOutcome
	if err := json.Unmarshal([]byte(v.ReviewOutcomeJSON), &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// SetReview stores the review outcome.
func (v *VerificationRecord) SetReview(outcome ReviewOutcome) error {
	raw, err := json.Marshal(outcome)
	if err != nil {
		return err
	}
	v.ReviewOutcomeJSON = string(raw)
	return nil
}

// Step returns the UI step index derived from the record's status.
func (v *VerificationRecord) Step() int {
	return StepForStatus(v.Status)
}
