package brackets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-standings/models"
)

func TestDeriveRoundRobin(t *testing.T) {
	fetched := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	snap := &models.Snapshot{
		Tournament: models.Tournament{TournamentID: 3, Format: models.FormatRoundRobin},
		Matches:    exampleRoundRobin(),
		FetchedAt:  fetched,
	}

	view := Derive(discardLogger(), snap)

	assert.Equal(t, []string{"A", "D", "B", "C"}, teamOrder(view.Standings))
	assert.True(t, view.Standings[0].IsWinner)
	assert.Equal(t, models.Completion{Detected: true, Complete: true, WinnerID: 1, Winner: "A"}, view.Completion)
	assert.Equal(t, string(ActionNone), view.NextAction)
	require.NotNil(t, view.Grid)
	assert.Equal(t, []string{"A", "B", "C", "D"}, view.Grid.Teams)
	require.Len(t, view.Bracket, 1)
	assert.Equal(t, "round_robin", view.Bracket[0].Name)
	assert.Nil(t, view.Swiss)
	assert.Equal(t, fetched, view.FetchedAt)
}

func TestDeriveEmptySnapshot(t *testing.T) {
	view := Derive(discardLogger(), &models.Snapshot{Tournament: models.Tournament{Format: models.FormatSingleElimination}})

	assert.NotNil(t, view.Standings)
	assert.Empty(t, view.Standings)
	assert.NotNil(t, view.Bracket)
	assert.Empty(t, view.Bracket)
	assert.Nil(t, view.Grid)
	assert.Equal(t, string(ActionGenerateInitial), view.NextAction)
	assert.False(t, view.Completion.Complete)
}

func TestDeriveSwiss(t *testing.T) {
	snap := &models.Snapshot{
		Tournament: models.Tournament{Format: models.FormatSwiss},
		Matches: []models.Match{
			tagged(played("1", 1, teamA, teamB, 21, 10), models.BracketTypeSwiss, 1),
			tagged(scheduled("2", 2, teamA, teamC), models.BracketTypeSwiss, 1),
		},
	}

	view := Derive(discardLogger(), snap)

	require.Len(t, view.Swiss, 2)
	assert.Nil(t, view.Grid)
	assert.False(t, view.Completion.Detected)
	assert.Equal(t, string(ActionGenerateNextRound), view.NextAction)
}

func TestDeriveDoesNotModifySnapshot(t *testing.T) {
	matches := exampleRoundRobin()
	snap := &models.Snapshot{Tournament: models.Tournament{Format: models.FormatRoundRobin}, Matches: matches}
	before := append([]models.Match(nil), matches...)

	Derive(discardLogger(), snap)

	assert.Equal(t, before, snap.Matches)
}
