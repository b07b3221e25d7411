package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-standings/models"
)

func rank(winner int, ms ...models.Match) []models.Standing {
	matches := normalize(ms...)
	return Rank(Aggregate(matches), matches, winner)
}

func TestRankTieBreakers(t *testing.T) {
	tests := []struct {
		name    string
		matches []models.Match
		want    []string
	}{
		{
			name: "distinct wins need no tie-break",
			matches: []models.Match{
				played("1", 1, teamC, teamA, 5, 3),
				played("2", 1, teamC, teamB, 5, 3),
				played("3", 1, teamB, teamA, 5, 3),
			},
			want: []string{"C", "B", "A"},
		},
		{
			name: "head-to-head inside the tied group beats point differential",
			matches: []models.Match{
				played("1", 1, teamB, teamA, 11, 10),
				played("2", 1, teamA, teamC, 21, 0),
				played("3", 1, teamA, teamD, 21, 0),
				played("4", 1, teamB, teamC, 11, 10),
				played("5", 1, teamD, teamB, 5, 0),
			},
			want: []string{"B", "A", "D", "C"},
		},
		{
			name: "point differential when no head-to-head exists",
			matches: []models.Match{
				played("1", 1, teamA, teamC, 21, 10),
				played("2", 1, teamB, teamD, 21, 5),
			},
			want: []string{"B", "A", "C", "D"},
		},
		{
			name: "points scored after equal differential",
			matches: []models.Match{
				played("1", 1, teamA, teamC, 20, 10),
				played("2", 1, teamB, teamD, 15, 5),
			},
			want: []string{"A", "B", "C", "D"},
		},
		{
			name: "results against outsiders do not count as head-to-head",
			matches: []models.Match{
				played("1", 1, teamB, teamD, 30, 0),
				played("2", 1, teamA, teamC, 12, 10),
				played("3", 1, teamD, teamC, 1, 0),
			},
			want: []string{"B", "A", "D", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, teamOrder(rank(0, tt.matches...)))
		})
	}
}

func TestRankCycleKeepsStableOrder(t *testing.T) {
	matches := []models.Match{
		played("1", 1, teamA, teamB, 10, 5),
		played("2", 1, teamB, teamC, 10, 5),
		played("3", 1, teamC, teamA, 10, 5),
	}

	var standings []models.Standing
	require.NotPanics(t, func() { standings = rank(0, matches...) })
	assert.Equal(t, []string{"A", "B", "C"}, teamOrder(standings))

	reversed := []models.Match{matches[2], matches[1], matches[0]}
	assert.Equal(t, teamOrder(standings), teamOrder(rank(0, reversed...)))
}

func TestRankMovesFinalWinnerToTop(t *testing.T) {
	standings := rank(3, exampleRoundRobin()...)

	assert.Equal(t, []string{"C", "A", "D", "B"}, teamOrder(standings))
	for i, s := range standings {
		assert.Equal(t, i+1, s.Rank)
		assert.Equal(t, s.TeamID == 3, s.IsWinner)
	}
}

func TestRankUnknownWinnerIsIgnored(t *testing.T) {
	standings := rank(99, exampleRoundRobin()...)
	assert.Equal(t, []string{"A", "D", "B", "C"}, teamOrder(standings))
	for _, s := range standings {
		assert.False(t, s.IsWinner)
	}
}
