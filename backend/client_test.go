package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-standings/models"
)

type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeBackend answers every request with the response produced by respond.
func fakeBackend(t *testing.T, respond func(req gqlRequest, r *http.Request) (int, string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		status, body := respond(req, r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTournament(t *testing.T) {
	var gotAuth string
	c := fakeBackend(t, func(req gqlRequest, r *http.Request) (int, string) {
		gotAuth = r.Header.Get("Authorization")
		assert.Contains(t, req.Query, "tournament(id: $id)")
		assert.Equal(t, "7", req.Variables["id"])
		return http.StatusOK, `{"data":{"tournament":{"tournamentId":"7","name":"Spring Open","format":"Round Robin","currentPhase":1,"createdBy":{"userId":12,"name":"Org"}}}}`
	})

	tour, err := c.Tournament(WithToken(context.Background(), "tok-123"), 7)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, models.FlexInt(7), tour.TournamentID)
	assert.Equal(t, models.FormatRoundRobin, tour.Format)
	assert.Equal(t, models.FlexInt(12), tour.CreatedBy.UserID)
}

func TestTournamentNotFound(t *testing.T) {
	c := fakeBackend(t, func(gqlRequest, *http.Request) (int, string) {
		return http.StatusOK, `{"data":{"tournament":null}}`
	})
	_, err := c.Tournament(context.Background(), 7)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestMatchesDecodesNestedParticipants(t *testing.T) {
	var gotAuth string
	c := fakeBackend(t, func(req gqlRequest, r *http.Request) (int, string) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "3", req.Variables["tournamentId"])
		return http.StatusOK, `{"data":{"allMatchesByTournamentId":[{
			"matchId":"41","score1":"21","score2":"17","status":"Completed","seed":1,"round":2,"verified":3,"bracketType":null,
			"tournament":{"tournamentId":"3","name":"Cup","createdBy":{"userId":"5"}},
			"matchparticipantSet":{"edges":[
				{"node":{"teamNumber":2,"participantId":{"participantId":"8","userId":{"userId":"9","name":"Bea"},"teamId":{"teamId":"4","name":"Blue"}}}},
				{"node":{"teamNumber":1,"participantId":{"participantId":"6","userId":{"userId":"7","name":"Al"},"teamId":{"teamId":2,"name":"Red"}}}}
			]}}]}}`
	})

	matches, err := c.Matches(context.Background(), 3)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, models.BracketTypeNone, m.BracketType)
	assert.Equal(t, models.MatchStatusCompleted, m.Status)
	assert.True(t, m.CreatedByUser(5))
	assert.Equal(t, 1, m.TeamNumberOf(7))
	assert.Equal(t, 2, m.TeamNumberOf(9))
	assert.Equal(t, 0, m.TeamNumberOf(5))
	require.NotNil(t, m.Side(1))
	assert.Equal(t, "Red", m.Side(1).Participant.Team.Name)
	assert.Equal(t, models.FlexInt(4), m.Side(2).Participant.Team.TeamID)
}

func TestMatchesEmptyList(t *testing.T) {
	c := fakeBackend(t, func(gqlRequest, *http.Request) (int, string) {
		return http.StatusOK, `{"data":{"allMatchesByTournamentId":null}}`
	})
	matches, err := c.Matches(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestRequestFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusBadGateway, `upstream down`},
		{"graphql error", http.StatusOK, `{"errors":[{"message":"boom"}],"data":null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fakeBackend(t, func(gqlRequest, *http.Request) (int, string) { return tt.status, tt.body })
			_, err := c.Matches(context.Background(), 1)
			assert.ErrorIs(t, err, ErrRequestFailed)
		})
	}
}

func TestUpdateMatchScore(t *testing.T) {
	c := fakeBackend(t, func(req gqlRequest, _ *http.Request) (int, string) {
		assert.Equal(t, "41", req.Variables["matchId"])
		assert.Equal(t, "21", req.Variables["score1"])
		assert.Equal(t, float64(3), req.Variables["verified"])
		return http.StatusOK, `{"data":{"updateMatchScore":{"success":true,"match":{"matchId":"41","score1":"21","score2":"18","status":"Completed","verified":3}}}}`
	})

	state, err := c.UpdateMatchScore(context.Background(), ScoreUpdate{MatchID: "41", Score1: "21", Score2: "18", Verified: 3})
	require.NoError(t, err)
	assert.Equal(t, &MatchState{MatchID: "41", Score1: "21", Score2: "18", Status: models.MatchStatusCompleted, Verified: 3}, state)
}

func TestUpdateMatchScoreRejected(t *testing.T) {
	c := fakeBackend(t, func(gqlRequest, *http.Request) (int, string) {
		return http.StatusOK, `{"data":{"updateMatchScore":{"success":false,"match":null}}}`
	})
	_, err := c.UpdateMatchScore(context.Background(), ScoreUpdate{MatchID: "41"})
	assert.ErrorIs(t, err, ErrMutationRejected)
}

func TestGenerate(t *testing.T) {
	t.Run("success flag mutation", func(t *testing.T) {
		c := fakeBackend(t, func(req gqlRequest, _ *http.Request) (int, string) {
			assert.True(t, strings.Contains(req.Query, "generateNextRound(tournamentId: $tournamentId) { success message }"))
			return http.StatusOK, `{"data":{"generateNextRound":{"success":true,"message":"Round 3 generated"}}}`
		})
		res, err := c.Generate(context.Background(), GenerateNextRound, 9)
		require.NoError(t, err)
		assert.Equal(t, "Round 3 generated", res.Message)
	})

	t.Run("match list mutation", func(t *testing.T) {
		c := fakeBackend(t, func(req gqlRequest, _ *http.Request) (int, string) {
			assert.Contains(t, req.Query, "generateSwissMatches")
			return http.StatusOK, `{"data":{"generateSwissMatches":{"message":"ok","matches":[{"matchId":"1"},{"matchId":"2"}]}}}`
		})
		res, err := c.Generate(context.Background(), GenerateSwissMatches, 9)
		require.NoError(t, err)
		assert.Equal(t, 2, res.MatchesCreated)
	})

	t.Run("rejected", func(t *testing.T) {
		c := fakeBackend(t, func(gqlRequest, *http.Request) (int, string) {
			return http.StatusOK, `{"data":{"generateRoundRobinToSingleElimination":{"success":false,"message":"round robin not finished"}}}`
		})
		_, err := c.Generate(context.Background(), GenerateRoundRobinToSingleElimination, 9)
		require.ErrorIs(t, err, ErrMutationRejected)
		assert.Contains(t, err.Error(), "round robin not finished")
	})

	t.Run("unknown mutation", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:0", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, err := c.Generate(context.Background(), Generation("dropTables"), 9)
		assert.ErrorIs(t, err, ErrMutationRejected)
	})
}
