package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-standings/models"
)

// Rank orders teams by wins and resolves equal-win groups by head-to-head
// wins inside the group, then point differential, then points scored. Teams
// still level keep ascending team ID order. A non-zero finalWinnerID is
// moved to the top unconditionally.
func Rank(stats map[int]*models.TeamStats, matches []NormalizedMatch, finalWinnerID int) []models.Standing {
	ordered := make([]*models.TeamStats, 0, len(stats))
	for _, ts := range stats {
		ordered = append(ordered, ts)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].TeamID < ordered[j].TeamID })
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Wins > ordered[j].Wins })

	for start := 0; start < len(ordered); {
		end := start + 1
		for end < len(ordered) && ordered[end].Wins == ordered[start].Wins {
			end++
		}
		if end-start > 1 {
			resolveTieGroup(ordered[start:end], matches)
		}
		start = end
	}

	if finalWinnerID != 0 {
		for i, ts := range ordered {
			if ts.TeamID == finalWinnerID {
				copy(ordered[1:i+1], ordered[:i])
				ordered[0] = ts
				break
			}
		}
	}

	standings := make([]models.Standing, len(ordered))
	for i, ts := range ordered {
		standings[i] = models.Standing{
			Rank:      i + 1,
			TeamStats: *ts,
			IsWinner:  finalWinnerID != 0 && ts.TeamID == finalWinnerID,
		}
	}
	return standings
}

func resolveTieGroup(group []*models.TeamStats, matches []NormalizedMatch) {
	members := make(map[int]struct{}, len(group))
	for _, ts := range group {
		members[ts.TeamID] = struct{}{}
	}

	headToHead := make(map[int]int, len(group))
	for _, m := range matches {
		if !m.Contributes() {
			continue
		}
		_, in1 := members[m.Team1.TeamID]
		_, in2 := members[m.Team2.TeamID]
		if !in1 || !in2 {
			continue
		}
		if w, ok := m.Winner(); ok {
			headToHead[w.TeamID]++
		}
	}

	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if headToHead[a.TeamID] != headToHead[b.TeamID] {
			return headToHead[a.TeamID] > headToHead[b.TeamID]
		}
		if a.PointDifferential != b.PointDifferential {
			return a.PointDifferential > b.PointDifferential
		}
		return a.PointsScored > b.PointsScored
	})
}

// Standings runs aggregation and ranking in one pass.
func Standings(matches []NormalizedMatch, completion models.Completion) []models.Standing {
	winner := 0
	if completion.Complete {
		winner = completion.WinnerID
	}
	return Rank(Aggregate(matches), matches, winner)
}
