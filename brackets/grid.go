package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-standings/models"
)

// RoundRobinGrid builds the head-to-head result matrix. Row and column order
// follow team names.
func RoundRobinGrid(matches []NormalizedMatch) models.RoundRobinGrid {
	teams := distinctTeams(matches)
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })

	index := make(map[int]int, len(teams))
	grid := models.RoundRobinGrid{
		Teams:   make([]string, len(teams)),
		TeamIDs: make([]int, len(teams)),
		Results: make([][]models.GridResult, len(teams)),
		Wins:    make([]int, len(teams)),
	}
	for i, t := range teams {
		index[t.TeamID] = i
		grid.Teams[i] = t.Name
		grid.TeamIDs[i] = t.TeamID
		grid.Results[i] = make([]models.GridResult, len(teams))
	}

	for _, m := range matches {
		if !m.Contributes() {
			continue
		}
		i, j := index[m.Team1.TeamID], index[m.Team2.TeamID]
		switch {
		case m.Team1.Score > m.Team2.Score:
			grid.Results[i][j], grid.Results[j][i] = models.GridWin, models.GridLoss
		case m.Team2.Score > m.Team1.Score:
			grid.Results[i][j], grid.Results[j][i] = models.GridLoss, models.GridWin
		default:
			grid.Results[i][j], grid.Results[j][i] = models.GridDraw, models.GridDraw
		}
	}

	for i, row := range grid.Results {
		for _, r := range row {
			if r == models.GridWin {
				grid.Wins[i]++
			}
		}
	}
	return grid
}

// SwissRounds lists each round's pairings with every team's record going
// into that round.
func SwissRounds(matches []NormalizedMatch) []models.SwissRound {
	stage := SwissStage(matches)
	sortMatches(stage)

	type record struct{ wins, losses int }
	records := make(map[int]*record)
	get := func(teamID int) *record {
		r, ok := records[teamID]
		if !ok {
			r = &record{}
			records[teamID] = r
		}
		return r
	}
	entry := func(s Side) models.SwissEntry {
		r := get(s.TeamID)
		return models.SwissEntry{TeamID: s.TeamID, Team: s.Name, Score: s.Score, Wins: r.wins, Losses: r.losses}
	}

	var rounds []models.SwissRound
	for i := 0; i < len(stage); {
		j := i
		for j < len(stage) && stage[j].Round == stage[i].Round {
			j++
		}
		round := models.SwissRound{Round: stage[i].Round}
		for _, m := range stage[i:j] {
			round.Pairings = append(round.Pairings, models.SwissPairing{
				MatchID: m.MatchID,
				Status:  m.Status,
				Entries: []models.SwissEntry{entry(m.Team1), entry(m.Team2)},
			})
		}
		for _, m := range stage[i:j] {
			if !m.Contributes() {
				continue
			}
			if w, ok := m.Winner(); ok {
				get(w.TeamID).wins++
				loser := m.Team1
				if w.TeamID == m.Team1.TeamID {
					loser = m.Team2
				}
				get(loser.TeamID).losses++
			}
		}
		rounds = append(rounds, round)
		i = j
	}
	return rounds
}
