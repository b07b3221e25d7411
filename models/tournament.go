package models

import "time"

type Format string

const (
	FormatSingleElimination      Format = "Single Elimination"
	FormatDoubleElimination      Format = "Double Elimination"
	FormatRoundRobin             Format = "Round Robin"
	FormatSwiss                  Format = "Swiss System"
	FormatRoundRobinToSingleElim Format = "Round Robin to Single Elimination"
	FormatRoundRobinToDoubleElim Format = "Round Robin to Double Elimination"
)

// Phase number the backend assigns once a chained double-elimination tournament
// leaves its round-robin stage.
const eliminationPhase = 2

// Chained reports whether the format runs a round-robin stage before an
// elimination stage.
func (f Format) Chained() bool {
	return f == FormatRoundRobinToSingleElim || f == FormatRoundRobinToDoubleElim
}

// DoubleElimination covers native double elimination and its chained variant.
func (f Format) DoubleElimination() bool {
	return f == FormatDoubleElimination || f == FormatRoundRobinToDoubleElim
}

// InEliminationPhase reports whether the backend has moved a chained
// double-elimination tournament into its second phase.
func (t *Tournament) InEliminationPhase() bool {
	return t.Format == FormatRoundRobinToDoubleElim && t.CurrentPhase == eliminationPhase
}

type Tournament struct {
	TournamentID FlexInt `json:"tournamentId"`
	Name         string  `json:"name"`
	Format       Format  `json:"format"`
	CurrentPhase int     `json:"currentPhase"`
	IsPrivate    bool    `json:"isPrivate"`
	CreatedBy    *User   `json:"createdBy,omitempty"`
}

// Snapshot is one immutable read of a tournament and its matches.
type Snapshot struct {
	Tournament Tournament `json:"tournament"`
	Matches    []Match    `json:"matches"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// WithMatch returns a copy of the snapshot with the match carrying the same ID
// replaced by the patch function's result.
func (s *Snapshot) WithMatch(matchID string, patch func(Match) Match) (*Snapshot, bool) {
	matches := make([]Match, len(s.Matches))
	copy(matches, s.Matches)
	found := false
	for i := range matches {
		if matches[i].MatchID == matchID {
			matches[i] = patch(matches[i])
			found = true
		}
	}
	return &Snapshot{Tournament: s.Tournament, Matches: matches, FetchedAt: s.FetchedAt}, found
}

// FindMatch returns the match with the given ID.
func (s *Snapshot) FindMatch(matchID string) (*Match, bool) {
	for i := range s.Matches {
		if s.Matches[i].MatchID == matchID {
			return &s.Matches[i], true
		}
	}
	return nil, false
}
