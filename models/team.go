package models

// Team is the identity and display data of a team as it appears inside match
// participant associations. Membership, privacy and invite data stay with the
// backend.
type Team struct {
	TeamID    FlexInt `json:"teamId"`
	Name      string  `json:"name"`
	IsPrivate bool    `json:"isPrivate,omitempty"`
}

// ByeTeamName is the display name of the synthetic opponent of a bye.
const ByeTeamName = "BYE"

// PlaceholderTeamName marks a slot the backend has not filled yet.
const PlaceholderTeamName = "TBD"
