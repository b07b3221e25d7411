package services

import "errors"

var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidBracketType   = errors.New("unknown bracket type")
	ErrByeNotEditable       = errors.New("bye matches have no score to enter")
	ErrScoresLocked         = errors.New("scores are verified by both teams and locked")
	ErrNothingToAdvance     = errors.New("tournament is complete, nothing to generate")
	ErrRoundInProgress      = errors.New("current round still has scheduled matches")
	ErrMutationRejected     = errors.New("backend rejected the change")
	ErrBackendUnavailable   = errors.New("tournament backend is unavailable")
	ErrExportFailed         = errors.New("failed to build standings export")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)
