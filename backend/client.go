// Package backend talks to the tournament GraphQL API that owns matches,
// tournaments and bracket generation.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/Dosada05/tournament-standings/models"
)

var (
	ErrTournamentNotFound = errors.New("tournament not found in backend")
	ErrMatchNotFound      = errors.New("match not found in backend")
	ErrRequestFailed      = errors.New("backend request failed")
	ErrMutationRejected   = errors.New("backend rejected the mutation")
)

type tokenKey struct{}

// WithToken attaches a bearer token that requests made with ctx forward to
// the backend.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

type Client struct {
	gql    *graphql.Client
	logger *slog.Logger
}

func NewClient(endpoint string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	gql := graphql.NewClient(endpoint, httpClient).
		WithRequestModifier(func(r *http.Request) {
			if token := tokenFromContext(r.Context()); token != "" {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		})
	return &Client{gql: gql, logger: logger}
}

func (c *Client) exec(ctx context.Context, op, query string, vars map[string]interface{}, dst interface{}) error {
	raw, err := c.gql.ExecRaw(ctx, query, vars)
	if err != nil {
		c.logger.Warn("backend operation failed", slog.String("operation", op), slog.Any("error", err))
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, op, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", ErrRequestFailed, op, err)
	}
	return nil
}

const tournamentQuery = `query TournamentById($id: ID!) {
  tournament(id: $id) {
    tournamentId
    name
    format
    currentPhase
    isPrivate
    createdBy { userId uuid name email }
  }
}`

func (c *Client) Tournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var resp struct {
		Tournament *models.Tournament `json:"tournament"`
	}
	vars := map[string]interface{}{"id": strconv.Itoa(tournamentID)}
	if err := c.exec(ctx, "tournament", tournamentQuery, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Tournament == nil {
		return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
	}
	return resp.Tournament, nil
}

const matchesQuery = `query MatchesByTournament($tournamentId: String!) {
  allMatchesByTournamentId(tournamentId: $tournamentId) {
    matchId
    startDate
    endDate
    score1
    score2
    status
    court
    seed
    round
    verified
    bracketType
    tournament {
      tournamentId
      name
      createdBy { userId uuid name email }
    }
    matchparticipantSet {
      edges {
        node {
          teamNumber
          participantId {
            participantId
            userId { userId name email }
            teamId { teamId name }
          }
        }
      }
    }
  }
}`

func (c *Client) Matches(ctx context.Context, tournamentID int) ([]models.Match, error) {
	var resp struct {
		Matches []models.Match `json:"allMatchesByTournamentId"`
	}
	vars := map[string]interface{}{"tournamentId": strconv.Itoa(tournamentID)}
	if err := c.exec(ctx, "allMatchesByTournamentId", matchesQuery, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Matches == nil {
		return []models.Match{}, nil
	}
	return resp.Matches, nil
}

// ScoreUpdate is the input of the score mutation.
type ScoreUpdate struct {
	MatchID  string
	Score1   string
	Score2   string
	Verified int
}

// MatchState is the authoritative post-mutation state of a match.
type MatchState struct {
	MatchID  string             `json:"matchId"`
	Score1   string             `json:"score1"`
	Score2   string             `json:"score2"`
	Status   models.MatchStatus `json:"status"`
	Verified int                `json:"verified"`
}

const updateScoreMutation = `mutation UpdateMatchScore($matchId: ID!, $score1: String!, $score2: String!, $verified: Int) {
  updateMatchScore(matchId: $matchId, score1: $score1, score2: $score2, verified: $verified) {
    success
    match { matchId score1 score2 status verified }
  }
}`

func (c *Client) UpdateMatchScore(ctx context.Context, in ScoreUpdate) (*MatchState, error) {
	var resp struct {
		UpdateMatchScore *struct {
			Success bool        `json:"success"`
			Match   *MatchState `json:"match"`
		} `json:"updateMatchScore"`
	}
	vars := map[string]interface{}{
		"matchId":  in.MatchID,
		"score1":   in.Score1,
		"score2":   in.Score2,
		"verified": in.Verified,
	}
	if err := c.exec(ctx, "updateMatchScore", updateScoreMutation, vars, &resp); err != nil {
		return nil, err
	}
	result := resp.UpdateMatchScore
	if result == nil || !result.Success {
		return nil, fmt.Errorf("%w: updateMatchScore for match %s", ErrMutationRejected, in.MatchID)
	}
	if result.Match == nil {
		return nil, fmt.Errorf("%w: match %s", ErrMatchNotFound, in.MatchID)
	}
	return result.Match, nil
}

// Generation names a bracket-generation mutation.
type Generation string

const (
	GenerateMatches                       Generation = "generateMatches"
	GenerateRoundRobinMatches             Generation = "generateRoundRobinMatches"
	GenerateSwissMatches                  Generation = "generateSwissMatches"
	GenerateDoubleEliminationMatches      Generation = "generateDoubleEliminationMatches"
	GenerateNextRound                     Generation = "generateNextRound"
	GenerateRoundRobinToSingleElimination Generation = "generateRoundRobinToSingleElimination"
	GenerateRoundRobinToDoubleElimination Generation = "generateRoundRobinToDoubleElimination"
)

// returnsMatches marks mutations whose payload lists created matches instead
// of a success flag.
func (g Generation) returnsMatches() bool {
	switch g {
	case GenerateMatches, GenerateRoundRobinMatches, GenerateSwissMatches, GenerateDoubleEliminationMatches:
		return true
	}
	return false
}

func (g Generation) Valid() bool {
	switch g {
	case GenerateMatches, GenerateRoundRobinMatches, GenerateSwissMatches, GenerateDoubleEliminationMatches,
		GenerateNextRound, GenerateRoundRobinToSingleElimination, GenerateRoundRobinToDoubleElimination:
		return true
	}
	return false
}

func (g Generation) mutation() string {
	selection := "success message"
	if g.returnsMatches() {
		selection = "message matches { matchId }"
	}
	return fmt.Sprintf("mutation Generate($tournamentId: ID!) {\n  %s(tournamentId: $tournamentId) { %s }\n}", g, selection)
}

type GenerationResult struct {
	Message        string `json:"message"`
	MatchesCreated int    `json:"matches_created,omitempty"`
}

func (c *Client) Generate(ctx context.Context, g Generation, tournamentID int) (*GenerationResult, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: unknown generation %q", ErrMutationRejected, g)
	}

	var resp map[string]*struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
		Matches []struct {
			MatchID string `json:"matchId"`
		} `json:"matches"`
	}
	vars := map[string]interface{}{"tournamentId": strconv.Itoa(tournamentID)}
	if err := c.exec(ctx, string(g), g.mutation(), vars, &resp); err != nil {
		return nil, err
	}

	payload := resp[string(g)]
	if payload == nil || (payload.Success != nil && !*payload.Success) {
		msg := ""
		if payload != nil {
			msg = payload.Message
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrMutationRejected, g, msg)
	}
	return &GenerationResult{Message: payload.Message, MatchesCreated: len(payload.Matches)}, nil
}
