// File: internal/domain/verification_test.go
package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepForStatus(t *testing.T) {
	cases := []struct {
		status VerificationStatus
		step   int
	}{
		{VerificationNone, 0},
		{VerificationEmailPending, 0},
		{VerificationPhonePending, 1},
		{VerificationStatsPending, 2},
		{VerificationNeedsUpdates, 2},
		{VerificationInReview, 3},
		{VerificationVerified, 4},
		{VerificationStatus("bogus"), 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.step, StepForStatus(tc.status), "status %s", tc.status)
	}
}

func TestCanAdvanceTo_ForwardOnly(t *testing.T) {
	assert.True(t, VerificationNone.CanAdvanceTo(VerificationEmailPending))
	assert.True(t, VerificationEmailPending.CanAdvanceTo(VerificationPhonePending))
	assert.True(t, VerificationPhonePending.CanAdvanceTo(VerificationStatsPending))
	assert.True(t, VerificationStatsPending.CanAdvanceTo(VerificationInReview))
	assert.True(t, VerificationInReview.CanAdvanceTo(VerificationVerified))

	// no going backwards
	assert.False(t, VerificationVerified.CanAdvanceTo(VerificationInReview))
	assert.False(t, VerificationPhonePending.CanAdvanceTo(VerificationEmailPending))
	assert.False(t, VerificationStatsPending.CanAdvanceTo(VerificationNone))
	assert.False(t, VerificationEmailPending.CanAdvanceTo(VerificationEmailPending))
}

func TestCanAdvanceTo_ReviewLoop(t *testing.T) {
	// the one legal backward move: reviewer sends the player back
	assert.True(t, VerificationInReview.CanAdvanceTo(VerificationNeedsUpdates))
	// and the player can resubmit
	assert.True(t, VerificationNeedsUpdates.CanAdvanceTo(VerificationInReview))
	// but a decided record cannot be sent back
	assert.False(t, VerificationVerified.CanAdvanceTo(VerificationNeedsUpdates))
}

func TestVerificationRecord_SnapshotRoundTrip(t *testing.T) {
	rec := &VerificationRecord{UserID: 7}

	snap, err := rec.Snapshot()
	require.NoError(t, err)
	assert.Nil(t, snap, "no snapshot before submission")

	in := StatsSnapshot{
		Stats:     SeasonStats{Goals: 11, Assists: 4, Appearances: 18},
		GPA:       3.6,
		Positions: []string{"CM", "CDM"},
		UpdatedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, rec.SetSnapshot(in))

	out, err := rec.Snapshot()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)
}

func TestVerificationRecord_SupportingFiles(t *testing.T) {
	rec := &VerificationRecord{UserID: 7}
	assert.Empty(t, rec.SupportingFiles())

	require.NoError(t, rec.SetSupportingFiles([]string{"http://a.com", "http://b.com"}))
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, rec.SupportingFiles())
}

func TestVerificationRecord_Step(t *testing.T) {
	rec := &VerificationRecord{UserID: 7, Status: VerificationNeedsUpdates}
	assert.Equal(t, 2, rec.Step(), "needs_updates lands back on the stats step")
}
