package models

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "Scheduled"
	MatchStatusCompleted MatchStatus = "Completed"
	MatchStatusBye       MatchStatus = "Bye"
)

type BracketType string

const (
	BracketTypeNone         BracketType = ""
	BracketTypeWinners      BracketType = "winners"
	BracketTypeLosers       BracketType = "losers"
	BracketTypeChampionship BracketType = "championship"
	BracketTypeRoundRobin   BracketType = "round_robin"
	BracketTypeSwiss        BracketType = "swiss"
)

// Verification states of a reported score.
const (
	VerifiedNone  = 0
	VerifiedTeam1 = 1
	VerifiedTeam2 = 2
	VerifiedBoth  = 3
)

// Match mirrors the backend's match record. A null bracketType decodes to
// BracketTypeNone, which means the single-elimination default.
type Match struct {
	MatchID      string                `json:"matchId"`
	StartDate    string                `json:"startDate,omitempty"`
	EndDate      string                `json:"endDate,omitempty"`
	Score1       string                `json:"score1"`
	Score2       string                `json:"score2"`
	Status       MatchStatus           `json:"status"`
	Court        string                `json:"court,omitempty"`
	Seed         int                   `json:"seed"`
	Round        int                   `json:"round"`
	Verified     int                   `json:"verified"`
	BracketType  BracketType           `json:"bracketType"`
	Tournament   *MatchTournament      `json:"tournament,omitempty"`
	Participants ParticipantConnection `json:"matchparticipantSet"`
}

type MatchTournament struct {
	TournamentID FlexInt `json:"tournamentId"`
	Name         string  `json:"name"`
	CreatedBy    *User   `json:"createdBy,omitempty"`
}

type ParticipantConnection struct {
	Edges []ParticipantEdge `json:"edges"`
}

type ParticipantEdge struct {
	Node MatchParticipant `json:"node"`
}

type MatchParticipant struct {
	TeamNumber  int          `json:"teamNumber"`
	Participant *Participant `json:"participantId"`
}

type Participant struct {
	ParticipantID FlexInt `json:"participantId"`
	User          *User   `json:"userId,omitempty"`
	Team          *Team   `json:"teamId,omitempty"`
}

// Side returns the participant association holding the given team number.
func (m *Match) Side(teamNumber int) *MatchParticipant {
	for i := range m.Participants.Edges {
		if m.Participants.Edges[i].Node.TeamNumber == teamNumber {
			return &m.Participants.Edges[i].Node
		}
	}
	return nil
}

// TeamNumberOf returns 1 or 2 when the user plays in the match, 0 otherwise.
func (m *Match) TeamNumberOf(userID int) int {
	for _, edge := range m.Participants.Edges {
		p := edge.Node.Participant
		if p != nil && p.User != nil && int(p.User.UserID) == userID {
			return edge.Node.TeamNumber
		}
	}
	return 0
}

// CreatedByUser reports whether the user created the match's tournament.
func (m *Match) CreatedByUser(userID int) bool {
	return m.Tournament != nil && m.Tournament.CreatedBy != nil &&
		int(m.Tournament.CreatedBy.UserID) == userID
}
