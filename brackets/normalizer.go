package brackets

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/Dosada05/tournament-standings/models"
)

// ByeTeamID identifies the synthetic opponent of a bye.
const ByeTeamID = 0

type Side struct {
	TeamID int
	Name   string
	Score  int
}

// NormalizedMatch is a match reduced to what derivation needs. Team1 always
// holds the team-number 1 association.
type NormalizedMatch struct {
	MatchID     string
	Team1       Side
	Team2       Side
	ScoresValid bool
	IsBye       bool
	Round       int
	Seed        int
	BracketType models.BracketType
	Status      models.MatchStatus
	Verified    int
	Court       string
}

// Contributes reports whether the match counts toward standings.
func (m *NormalizedMatch) Contributes() bool {
	return m.Status == models.MatchStatusCompleted && !m.IsBye && m.ScoresValid
}

// Involves reports whether the team played on either side.
func (m *NormalizedMatch) Involves(teamID int) bool {
	return m.Team1.TeamID == teamID || m.Team2.TeamID == teamID
}

// Winner returns the side with the strictly greater score.
func (m *NormalizedMatch) Winner() (Side, bool) {
	switch {
	case m.Team1.Score > m.Team2.Score:
		return m.Team1, true
	case m.Team2.Score > m.Team1.Score:
		return m.Team2, true
	}
	return Side{}, false
}

// Normalize converts one raw match. It reports false when the match is missing
// a participant association it needs.
func Normalize(m models.Match) (NormalizedMatch, bool) {
	nm := NormalizedMatch{
		MatchID:     m.MatchID,
		Round:       m.Round,
		Seed:        m.Seed,
		BracketType: m.BracketType,
		Status:      m.Status,
		Verified:    m.Verified,
		Court:       m.Court,
	}

	if m.Status == models.MatchStatusBye {
		team, ok := byeTeam(m)
		if !ok {
			return NormalizedMatch{}, false
		}
		nm.IsBye = true
		nm.Team1 = team
		nm.Team2 = Side{TeamID: ByeTeamID, Name: models.ByeTeamName}
		return nm, true
	}

	p1, p2 := m.Side(1), m.Side(2)
	if !hasTeam(p1) || !hasTeam(p2) {
		return NormalizedMatch{}, false
	}
	if p1.Participant.Team.TeamID == p2.Participant.Team.TeamID {
		return NormalizedMatch{}, false
	}

	score1, ok1 := ParseScore(m.Score1)
	score2, ok2 := ParseScore(m.Score2)
	nm.ScoresValid = ok1 && ok2
	nm.Team1 = Side{TeamID: int(p1.Participant.Team.TeamID), Name: p1.Participant.Team.Name, Score: score1}
	nm.Team2 = Side{TeamID: int(p2.Participant.Team.TeamID), Name: p2.Participant.Team.Name, Score: score2}
	return nm, true
}

// NormalizeAll normalizes a match list, logging and dropping records that
// cannot be normalized.
func NormalizeAll(logger *slog.Logger, matches []models.Match) []NormalizedMatch {
	out := make([]NormalizedMatch, 0, len(matches))
	for _, m := range matches {
		nm, ok := Normalize(m)
		if !ok {
			if logger != nil {
				logger.Warn("match excluded: incomplete participant data",
					slog.String("match_id", m.MatchID),
					slog.Int("round", m.Round),
					slog.String("status", string(m.Status)),
					slog.Int("participants", len(m.Participants.Edges)))
			}
			continue
		}
		out = append(out, nm)
	}
	return out
}

func hasTeam(p *models.MatchParticipant) bool {
	return p != nil && p.Participant != nil && p.Participant.Team != nil
}

func byeTeam(m models.Match) (Side, bool) {
	if p := m.Side(1); hasTeam(p) {
		return Side{TeamID: int(p.Participant.Team.TeamID), Name: p.Participant.Team.Name}, true
	}
	var found *models.MatchParticipant
	for i := range m.Participants.Edges {
		node := &m.Participants.Edges[i].Node
		if !hasTeam(node) {
			continue
		}
		if found != nil {
			return Side{}, false
		}
		found = node
	}
	if found == nil {
		return Side{}, false
	}
	return Side{TeamID: int(found.Participant.Team.TeamID), Name: found.Participant.Team.Name}, true
}

// ParseScore reads a base-10 integer prefix the way a browser's parseInt does:
// leading whitespace and one sign are accepted and trailing garbage is ignored.
// It returns 0 and false when no digits lead the string or the value does not
// fit in an int.
func ParseScore(raw string) (int, bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(sign + s[:digits])
	if err != nil {
		return 0, false
	}
	return n, true
}
