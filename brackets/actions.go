package brackets

import "github.com/Dosada05/tournament-standings/models"

// Action names the backend operation that moves a tournament forward.
type Action string

const (
	ActionNone                      Action = "none"
	ActionGenerateInitial           Action = "generate_initial"
	ActionGenerateNextRound         Action = "generate_next_round"
	ActionGenerateSingleElimination Action = "generate_single_elimination"
	ActionGenerateDoubleElimination Action = "generate_double_elimination"
	ActionCompleteCurrentRound      Action = "complete_current_round"
)

// NextAction decides how to advance a tournament from its current matches.
func NextAction(t models.Tournament, matches []NormalizedMatch, completion models.Completion) Action {
	if len(matches) == 0 {
		return ActionGenerateInitial
	}
	if completion.Complete {
		return ActionNone
	}
	if !t.Format.Chained() {
		return ActionGenerateNextRound
	}
	if t.InEliminationPhase() {
		return ActionGenerateNextRound
	}

	hasElimination, stageOpen, hasTypedBrackets := false, false, false
	for _, m := range matches {
		if m.Round > 1 {
			hasElimination = true
		}
		if m.Round == 1 && m.Status == models.MatchStatusScheduled {
			stageOpen = true
		}
		if m.BracketType == models.BracketTypeWinners || m.BracketType == models.BracketTypeLosers {
			hasTypedBrackets = true
		}
	}

	transition := ActionGenerateSingleElimination
	if t.Format == models.FormatRoundRobinToDoubleElim {
		transition = ActionGenerateDoubleElimination
	} else {
		hasTypedBrackets = false
	}

	switch {
	case !hasElimination && !stageOpen:
		return transition
	case hasElimination || hasTypedBrackets:
		return ActionGenerateNextRound
	}
	return ActionCompleteCurrentRound
}

// NextVerification computes the verification state after a score report.
// mismatch is set when the opposing side's report disagrees with the stored
// scores.
func NextVerification(current, reporterTeam int, isAdmin, sameScores bool) (state int, mismatch bool) {
	switch {
	case current == models.VerifiedBoth:
		return models.VerifiedBoth, false
	case isAdmin:
		return models.VerifiedBoth, false
	case (current == models.VerifiedTeam1 && reporterTeam == 2) || (current == models.VerifiedTeam2 && reporterTeam == 1):
		if sameScores {
			return models.VerifiedBoth, false
		}
		return reporterTeam, true
	}
	return reporterTeam, false
}
