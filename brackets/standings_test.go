package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-standings/models"
)

func TestAggregateRoundRobinExample(t *testing.T) {
	stats := Aggregate(normalize(exampleRoundRobin()...))
	require.Len(t, stats, 4)

	want := map[int]models.TeamStats{
		1: {TeamID: 1, Team: "A", Wins: 3, Losses: 0, PointsScored: 63, PointsAgainst: 30, PointDifferential: 33},
		2: {TeamID: 2, Team: "B", Wins: 1, Losses: 2, PointsScored: 46, PointsAgainst: 60, PointDifferential: -14},
		3: {TeamID: 3, Team: "C", Wins: 0, Losses: 3, PointsScored: 43, PointsAgainst: 63, PointDifferential: -20},
		4: {TeamID: 4, Team: "D", Wins: 2, Losses: 1, PointsScored: 47, PointsAgainst: 46, PointDifferential: 1},
	}
	for id, ts := range want {
		assert.Equal(t, ts, *stats[id], "team %d", id)
	}
}

func TestStandingsRoundRobinExample(t *testing.T) {
	matches := normalize(exampleRoundRobin()...)
	standings := Standings(matches, models.Completion{})

	assert.Equal(t, []string{"A", "D", "B", "C"}, teamOrder(standings))
	for i, s := range standings {
		assert.Equal(t, i+1, s.Rank)
		assert.False(t, s.IsWinner)
	}
}

func TestAggregatePointTotalsMatchOwnScores(t *testing.T) {
	matches := normalize(append(exampleRoundRobin(),
		played("7", 2, teamA, teamD, 17, 17),
		scheduled("8", 2, teamB, teamC),
	)...)
	stats := Aggregate(matches)

	for id, ts := range stats {
		scored, against := 0, 0
		for _, m := range matches {
			if !m.Contributes() {
				continue
			}
			switch id {
			case m.Team1.TeamID:
				scored += m.Team1.Score
				against += m.Team2.Score
			case m.Team2.TeamID:
				scored += m.Team2.Score
				against += m.Team1.Score
			}
		}
		assert.Equal(t, scored, ts.PointsScored, "team %d scored", id)
		assert.Equal(t, against, ts.PointsAgainst, "team %d against", id)
		assert.Equal(t, ts.PointsScored-ts.PointsAgainst, ts.PointDifferential)
	}
}

func TestAggregateTieCountsPointsOnly(t *testing.T) {
	stats := Aggregate(normalize(played("1", 1, teamA, teamB, 15, 15)))
	require.Len(t, stats, 2)
	for _, ts := range stats {
		assert.Zero(t, ts.Wins)
		assert.Zero(t, ts.Losses)
		assert.Equal(t, 15, ts.PointsScored)
		assert.Equal(t, 15, ts.PointsAgainst)
	}
}

func TestAggregateIgnoresNonContributingMatches(t *testing.T) {
	invalid := played("3", 1, teamA, teamC, 0, 0)
	invalid.Score1 = "forfeit"

	stats := Aggregate(normalize(
		byeFor("1", 1, teamA),
		scheduled("2", 1, teamA, teamB),
		invalid,
	))
	assert.Empty(t, stats)
}

func TestAggregateByeNeverContributes(t *testing.T) {
	with := Aggregate(normalize(played("1", 1, teamA, teamB, 21, 3), byeFor("2", 2, teamA)))
	without := Aggregate(normalize(played("1", 1, teamA, teamB, 21, 3)))
	assert.Equal(t, without, with)
	_, hasBye := with[ByeTeamID]
	assert.False(t, hasBye)
}

func TestAggregateDropsPlaceholderTeams(t *testing.T) {
	stats := Aggregate(normalize(
		played("1", 1, teamA, team(7, "TBD"), 21, 0),
		played("2", 1, teamB, team(8, ""), 21, 0),
	))
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[1].Wins)
	assert.Equal(t, 1, stats[2].Wins)
}
