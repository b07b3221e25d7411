package brackets

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/Dosada05/tournament-standings/models"
)

var bracketPrefixes = map[models.BracketType]string{
	models.BracketTypeWinners:      "Winners",
	models.BracketTypeLosers:       "Losers",
	models.BracketTypeChampionship: "Championship",
	models.BracketTypeRoundRobin:   "Round Robin",
	models.BracketTypeSwiss:        "Swiss",
}

// GroupRounds groups matches by round in ascending order. A non-empty
// bracketType filters matches by exact tag before grouping and switches to
// bracket-specific labels and seed numbering.
func GroupRounds(matches []NormalizedMatch, bracketType models.BracketType) []models.RoundGroup {
	return groupRounds(matches, bracketType, make(map[string]struct{}))
}

// groupRounds records every match it places in seen and skips any match
// already there.
func groupRounds(matches []NormalizedMatch, bracketType models.BracketType, seen map[string]struct{}) []models.RoundGroup {
	selected := make([]NormalizedMatch, 0, len(matches))
	for _, m := range matches {
		if bracketType != models.BracketTypeNone && m.BracketType != bracketType {
			continue
		}
		if _, dup := seen[m.MatchID]; dup {
			continue
		}
		seen[m.MatchID] = struct{}{}
		selected = append(selected, m)
	}
	sortMatches(selected)

	var groups []models.RoundGroup
	for i := 0; i < len(selected); {
		j := i
		for j < len(selected) && selected[j].Round == selected[i].Round {
			j++
		}
		groups = append(groups, models.RoundGroup{
			Round:        selected[i].Round,
			DisplayRound: displayRound(selected[i].Round, bracketType),
			BracketType:  bracketType,
			Seeds:        seedsFor(selected[i:j], bracketType),
		})
		i = j
	}

	maxRound := 0
	if len(groups) > 0 {
		maxRound = groups[len(groups)-1].Round
	}
	for i := range groups {
		groups[i].Title = roundTitle(groups[i], bracketType, len(groups), maxRound)
	}
	return groups
}

func sortMatches(ms []NormalizedMatch) {
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].Round != ms[j].Round {
			return ms[i].Round < ms[j].Round
		}
		if ms[i].Seed != ms[j].Seed {
			return ms[i].Seed < ms[j].Seed
		}
		return lessMatchID(ms[i].MatchID, ms[j].MatchID)
	})
}

// lessMatchID orders numeric identifiers numerically and anything else
// lexically.
func lessMatchID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

// displayRound shifts losers-bracket rounds down by one for labels only.
func displayRound(round int, bracketType models.BracketType) int {
	if bracketType == models.BracketTypeLosers {
		return round - 1
	}
	return round
}

func seedsFor(ms []NormalizedMatch, bracketType models.BracketType) []models.BracketSeed {
	renumber := bracketType == models.BracketTypeLosers ||
		(bracketType == models.BracketTypeWinners && len(ms) > 0 && ms[0].Round >= 2)

	seeds := make([]models.BracketSeed, 0, len(ms))
	for i, m := range ms {
		seed := models.BracketSeed{
			MatchID:     m.MatchID,
			Seed:        m.Seed,
			DisplaySeed: m.Seed,
			Status:      m.Status,
			Verified:    m.Verified,
			Court:       m.Court,
			IsBye:       m.IsBye,
			Teams: []models.SeedTeam{
				{TeamID: m.Team1.TeamID, Name: m.Team1.Name, Score: m.Team1.Score},
				{TeamID: m.Team2.TeamID, Name: m.Team2.Name, Score: m.Team2.Score},
			},
		}
		if renumber {
			seed.DisplaySeed = i + 1
		}
		seeds = append(seeds, seed)
	}
	return seeds
}

func roundTitle(g models.RoundGroup, bracketType models.BracketType, roundCount, maxRound int) string {
	prefix, typed := bracketPrefixes[bracketType]
	if !typed {
		return fmt.Sprintf("Round %d", g.Round)
	}
	single := len(g.Seeds) == 1

	switch {
	case g.Round == 1 && bracketType != models.BracketTypeChampionship:
		return fmt.Sprintf("%s Round %d", prefix, g.DisplayRound)
	case bracketType == models.BracketTypeWinners && single:
		return "Winners Final"
	case bracketType == models.BracketTypeChampionship && single:
		if roundCount > 1 && g.Round == maxRound {
			return "Final Championship Match"
		}
		return "Championship Match"
	}
	return fmt.Sprintf("%s Round %d", prefix, g.DisplayRound)
}

// RoundRobinStage selects the round-robin half of a chained format.
func RoundRobinStage(matches []NormalizedMatch) []NormalizedMatch {
	return filterMatches(matches, func(m NormalizedMatch) bool {
		return m.Round == 1 || m.BracketType == models.BracketTypeRoundRobin
	})
}

// EliminationStage selects the elimination half of a chained format.
func EliminationStage(format models.Format, matches []NormalizedMatch) []NormalizedMatch {
	return filterMatches(matches, func(m NormalizedMatch) bool {
		if m.Round >= 2 {
			return true
		}
		if format != models.FormatRoundRobinToDoubleElim {
			return false
		}
		switch m.BracketType {
		case models.BracketTypeWinners, models.BracketTypeLosers, models.BracketTypeChampionship:
			return true
		}
		return false
	})
}

// SwissStage selects matches tagged swiss or carrying no tag.
func SwissStage(matches []NormalizedMatch) []NormalizedMatch {
	return filterMatches(matches, func(m NormalizedMatch) bool {
		return m.BracketType == models.BracketTypeSwiss || m.BracketType == models.BracketTypeNone
	})
}

func filterMatches(matches []NormalizedMatch, keep func(NormalizedMatch) bool) []NormalizedMatch {
	out := make([]NormalizedMatch, 0, len(matches))
	for _, m := range matches {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

var doubleEliminationBrackets = []models.BracketType{
	models.BracketTypeWinners,
	models.BracketTypeLosers,
	models.BracketTypeChampionship,
}

// SectionElimination names the untyped knockout section.
const SectionElimination = "elimination"

// BracketView lays out the rounds of every bracket the format renders. A match
// lands in at most one section.
func BracketView(format models.Format, matches []NormalizedMatch) []models.BracketSection {
	seen := make(map[string]struct{})
	var sections []models.BracketSection
	add := func(name string, rounds []models.RoundGroup) {
		if len(rounds) > 0 {
			sections = append(sections, models.BracketSection{Name: name, Rounds: rounds})
		}
	}

	switch format {
	case models.FormatDoubleElimination:
		for _, bt := range doubleEliminationBrackets {
			add(string(bt), groupRounds(matches, bt, seen))
		}
	case models.FormatRoundRobin:
		add(string(models.BracketTypeRoundRobin), groupRounds(matches, models.BracketTypeNone, seen))
	case models.FormatSwiss:
		add(string(models.BracketTypeSwiss), groupRounds(SwissStage(matches), models.BracketTypeNone, seen))
	case models.FormatRoundRobinToSingleElim:
		add(string(models.BracketTypeRoundRobin), groupRounds(RoundRobinStage(matches), models.BracketTypeNone, seen))
		add(SectionElimination, groupRounds(EliminationStage(format, matches), models.BracketTypeNone, seen))
	case models.FormatRoundRobinToDoubleElim:
		add(string(models.BracketTypeRoundRobin), groupRounds(RoundRobinStage(matches), models.BracketTypeNone, seen))
		elimination := EliminationStage(format, matches)
		for _, bt := range doubleEliminationBrackets {
			add(string(bt), groupRounds(elimination, bt, seen))
		}
	default:
		add(SectionElimination, groupRounds(matches, models.BracketTypeNone, seen))
	}
	return sections
}
