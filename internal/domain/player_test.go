// File: internal/domain/player_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerProfile_SetPositions(t *testing.T) {
	var p PlayerProfile

	p.SetPositions([]string{" cm ", "cdm", "", "ST"})
	assert.Equal(t, "CM,CDM,ST", p.Positions)
	assert.Equal(t, []string{"CM", "CDM", "ST"}, p.PositionList())

	p.SetPositions(nil)
	assert.Empty(t, p.Positions)
	assert.Nil(t, p.PositionList())
}

func TestPlayerProfile_StatsRoundTrip(t *testing.T) {
	var p PlayerProfile

	stats, err := p.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats, "profile without stats decodes to the zero value")

	require.NoError(t, p.SetStats(SeasonStats{Appearances: 18, Goals: 11, Assists: 4, MinutesPlayed: 1530}))
	stats, err = p.Stats()
	require.NoError(t, err)
	assert.Equal(t, 11, stats.Goals)
	assert.Equal(t, 1530, stats.MinutesPlayed)
}

func TestPlayerProfile_IsValid(t *testing.T) {
	p := PlayerProfile{UserID: 1, GPA: 3.4, GradYear: 2027}
	assert.NoError(t, p.IsValid())

	assert.Error(t, (&PlayerProfile{GPA: 3.4}).IsValid(), "profile needs an owner")
	assert.Error(t, (&PlayerProfile{UserID: 1, GPA: 5.5}).IsValid())
	assert.Error(t, (&PlayerProfile{UserID: 1, GradYear: 1900}).IsValid())
}
