package brackets

import (
	"math/bits"
	"sort"

	"github.com/Dosada05/tournament-standings/models"
)

// DetectCompletion reports whether the tournament has reached its terminal
// state and who won it. Swiss tournaments are never detected.
func DetectCompletion(format models.Format, matches []NormalizedMatch) models.Completion {
	switch format {
	case models.FormatSwiss:
		return models.Completion{}
	case models.FormatRoundRobin:
		return roundRobinCompletion(matches)
	case models.FormatDoubleElimination, models.FormatRoundRobinToDoubleElim:
		return doubleEliminationCompletion(matches)
	case models.FormatRoundRobinToSingleElim:
		return singleEliminationCompletion(matches, 1)
	}
	return singleEliminationCompletion(matches, 0)
}

// ExpectedFinalRound is ceil(log2(teams)), and 1 for one team or none.
func ExpectedFinalRound(teams int) int {
	if teams <= 1 {
		return 1
	}
	return bits.Len(uint(teams - 1))
}

// ExpectedRoundRobinMatches is the number of pairings among n teams.
func ExpectedRoundRobinMatches(teams int) int {
	return teams * (teams - 1) / 2
}

func distinctTeams(matches []NormalizedMatch) []Side {
	seen := make(map[int]struct{})
	var teams []Side
	for _, m := range matches {
		for _, s := range []Side{m.Team1, m.Team2} {
			if s.TeamID == ByeTeamID || s.Name == models.ByeTeamName {
				continue
			}
			if _, ok := seen[s.TeamID]; ok {
				continue
			}
			seen[s.TeamID] = struct{}{}
			teams = append(teams, s)
		}
	}
	return teams
}

func singleEliminationCompletion(matches []NormalizedMatch, stageOffset int) models.Completion {
	c := models.Completion{Detected: true}
	if len(matches) == 0 {
		return c
	}

	expected := ExpectedFinalRound(len(distinctTeams(matches))) + stageOffset
	maxRound := 0
	for _, m := range matches {
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}
	if maxRound < expected {
		return c
	}

	final := filterMatches(matches, func(m NormalizedMatch) bool {
		return m.Round == maxRound && m.Status == models.MatchStatusCompleted && !m.IsBye
	})
	if len(final) == 0 {
		return c
	}
	sortMatches(final)

	c.Complete = true
	if w, ok := final[0].Winner(); ok {
		c.WinnerID, c.Winner = w.TeamID, w.Name
	}
	return c
}

func roundRobinCompletion(matches []NormalizedMatch) models.Completion {
	c := models.Completion{Detected: true}
	teams := distinctTeams(matches)
	if len(teams) < 2 {
		return c
	}

	completed := 0
	for _, m := range matches {
		if m.Status == models.MatchStatusCompleted && !m.IsBye {
			completed++
		}
	}
	if completed < ExpectedRoundRobinMatches(len(teams)) {
		return c
	}
	c.Complete = true

	// Ties on wins go to the lowest team ID.
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })
	stats := Aggregate(matches)
	maxWins := 0
	for _, team := range teams {
		ts, ok := stats[team.TeamID]
		if ok && ts.Wins > maxWins {
			maxWins = ts.Wins
			c.WinnerID, c.Winner = ts.TeamID, ts.Team
		}
	}
	return c
}

func doubleEliminationCompletion(matches []NormalizedMatch) models.Completion {
	c := models.Completion{Detected: true}
	championship := filterMatches(matches, func(m NormalizedMatch) bool {
		return m.BracketType == models.BracketTypeChampionship && m.Status == models.MatchStatusCompleted
	})
	if len(championship) == 0 {
		return c
	}
	sortMatches(championship)

	if len(championship) == 1 && championship[0].Team2.Score > championship[0].Team1.Score {
		c.ResetPending = true
		return c
	}

	c.Complete = true
	if w, ok := championship[len(championship)-1].Winner(); ok {
		c.WinnerID, c.Winner = w.TeamID, w.Name
	}
	return c
}
