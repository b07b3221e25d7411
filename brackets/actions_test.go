package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Dosada05/tournament-standings/models"
)

func TestNextAction(t *testing.T) {
	rrOpen := append(exampleRoundRobin()[:5:5], scheduled("6", 1, teamC, teamD))
	rrDone := exampleRoundRobin()
	withSemis := append(exampleRoundRobin(), scheduled("7", 2, teamA, teamC))
	withWinnersTag := append(exampleRoundRobin()[:5:5],
		scheduled("6", 1, teamC, teamD),
		tagged(scheduled("7", 1, teamA, teamD), models.BracketTypeWinners, 1))

	tests := []struct {
		name       string
		tournament models.Tournament
		matches    []models.Match
		completion models.Completion
		want       Action
	}{
		{"no matches", models.Tournament{Format: models.FormatSwiss}, nil, models.Completion{}, ActionGenerateInitial},
		{"complete", models.Tournament{Format: models.FormatSingleElimination}, rrDone, models.Completion{Complete: true}, ActionNone},
		{"plain format", models.Tournament{Format: models.FormatDoubleElimination}, rrOpen, models.Completion{}, ActionGenerateNextRound},
		{"rr to se stage open", models.Tournament{Format: models.FormatRoundRobinToSingleElim}, rrOpen, models.Completion{}, ActionCompleteCurrentRound},
		{"rr to se stage done", models.Tournament{Format: models.FormatRoundRobinToSingleElim}, rrDone, models.Completion{}, ActionGenerateSingleElimination},
		{"rr to se elimination running", models.Tournament{Format: models.FormatRoundRobinToSingleElim}, withSemis, models.Completion{}, ActionGenerateNextRound},
		{"rr to se ignores bracket tags", models.Tournament{Format: models.FormatRoundRobinToSingleElim}, withWinnersTag, models.Completion{}, ActionCompleteCurrentRound},
		{"rr to de stage done", models.Tournament{Format: models.FormatRoundRobinToDoubleElim}, rrDone, models.Completion{}, ActionGenerateDoubleElimination},
		{"rr to de bracket tags present", models.Tournament{Format: models.FormatRoundRobinToDoubleElim}, withWinnersTag, models.Completion{}, ActionGenerateNextRound},
		{"rr to de phase two", models.Tournament{Format: models.FormatRoundRobinToDoubleElim, CurrentPhase: 2}, rrOpen, models.Completion{}, ActionGenerateNextRound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextAction(tt.tournament, normalize(tt.matches...), tt.completion))
		})
	}
}

func TestNextVerification(t *testing.T) {
	tests := []struct {
		name         string
		current      int
		reporter     int
		admin        bool
		same         bool
		wantState    int
		wantMismatch bool
	}{
		{"locked stays locked", 3, 1, false, false, 3, false},
		{"admin verifies", 0, 0, true, false, 3, false},
		{"first report", 0, 1, false, false, 1, false},
		{"same side reports again", 1, 1, false, false, 1, false},
		{"opponent confirms", 1, 2, false, true, 3, false},
		{"opponent confirms team two report", 2, 1, false, true, 3, false},
		{"opponent disagrees", 1, 2, false, false, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, mismatch := NextVerification(tt.current, tt.reporter, tt.admin, tt.same)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantMismatch, mismatch)
		})
	}
}
