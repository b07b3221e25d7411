package brackets

import (
	"strings"

	"github.com/Dosada05/tournament-standings/models"
)

// Aggregate folds completed matches into per-team statistics. Byes, matches
// with unparseable scores and placeholder teams never appear in the result.
func Aggregate(matches []NormalizedMatch) map[int]*models.TeamStats {
	stats := make(map[int]*models.TeamStats)
	entry := func(s Side) *models.TeamStats {
		ts, ok := stats[s.TeamID]
		if !ok {
			ts = &models.TeamStats{TeamID: s.TeamID, Team: s.Name}
			stats[s.TeamID] = ts
		}
		return ts
	}

	for _, m := range matches {
		if !m.Contributes() {
			continue
		}
		t1, t2 := entry(m.Team1), entry(m.Team2)

		switch {
		case m.Team1.Score > m.Team2.Score:
			t1.Wins++
			t2.Losses++
		case m.Team2.Score > m.Team1.Score:
			t2.Wins++
			t1.Losses++
		}

		t1.PointsScored += m.Team1.Score
		t1.PointsAgainst += m.Team2.Score
		t2.PointsScored += m.Team2.Score
		t2.PointsAgainst += m.Team1.Score
	}

	for id, ts := range stats {
		if !namedTeam(ts.Team) {
			delete(stats, id)
			continue
		}
		ts.PointDifferential = ts.PointsScored - ts.PointsAgainst
	}
	return stats
}

func namedTeam(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && name != models.PlaceholderTeamName && name != models.ByeTeamName
}
