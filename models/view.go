package models

import "time"

// TeamStats is rebuilt from the match list on every derivation.
type TeamStats struct {
	TeamID            int    `json:"team_id"`
	Team              string `json:"team"`
	Wins              int    `json:"wins"`
	Losses            int    `json:"losses"`
	PointsScored      int    `json:"points_scored"`
	PointsAgainst     int    `json:"points_against"`
	PointDifferential int    `json:"point_differential"`
}

type Standing struct {
	Rank int `json:"rank"`
	TeamStats
	IsWinner bool `json:"is_winner,omitempty"`
}

type SeedTeam struct {
	TeamID int    `json:"team_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

type BracketSeed struct {
	MatchID     string      `json:"match_id"`
	Seed        int         `json:"seed"`
	DisplaySeed int         `json:"display_seed"`
	Status      MatchStatus `json:"status"`
	Verified    int         `json:"verified"`
	Court       string      `json:"court,omitempty"`
	IsBye       bool        `json:"is_bye,omitempty"`
	Teams       []SeedTeam  `json:"teams"`
}

// RoundGroup keeps the raw round for sequencing and the display round for
// labels; they differ only in the losers bracket.
type RoundGroup struct {
	Round        int           `json:"round"`
	DisplayRound int           `json:"display_round"`
	Title        string        `json:"title"`
	BracketType  BracketType   `json:"bracket_type,omitempty"`
	Seeds        []BracketSeed `json:"seeds"`
}

type BracketSection struct {
	Name   string       `json:"name"`
	Rounds []RoundGroup `json:"rounds"`
}

type Completion struct {
	Detected     bool   `json:"detected"`
	Complete     bool   `json:"complete"`
	WinnerID     int    `json:"winner_id,omitempty"`
	Winner       string `json:"winner,omitempty"`
	ResetPending bool   `json:"reset_pending,omitempty"`
}

type GridResult string

const (
	GridUnplayed GridResult = ""
	GridWin      GridResult = "W"
	GridLoss     GridResult = "L"
	GridDraw     GridResult = "D"
)

type RoundRobinGrid struct {
	Teams   []string       `json:"teams"`
	TeamIDs []int          `json:"team_ids"`
	Results [][]GridResult `json:"results"`
	Wins    []int          `json:"wins"`
}

type SwissEntry struct {
	TeamID int    `json:"team_id"`
	Team   string `json:"team"`
	Score  int    `json:"score"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

type SwissPairing struct {
	MatchID string       `json:"match_id"`
	Status  MatchStatus  `json:"status"`
	Entries []SwissEntry `json:"entries"`
}

type SwissRound struct {
	Round    int            `json:"round"`
	Pairings []SwissPairing `json:"pairings"`
}

// TournamentView is everything derived from one snapshot.
type TournamentView struct {
	Tournament Tournament       `json:"tournament"`
	Standings  []Standing       `json:"standings"`
	Bracket    []BracketSection `json:"bracket"`
	Completion Completion       `json:"completion"`
	Grid       *RoundRobinGrid  `json:"grid,omitempty"`
	Swiss      []SwissRound     `json:"swiss,omitempty"`
	NextAction string           `json:"next_action"`
	Stale      bool             `json:"stale,omitempty"`
	Notice     string           `json:"notice,omitempty"`
	FetchedAt  time.Time        `json:"fetched_at"`
}
