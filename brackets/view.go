package brackets

import (
	"log/slog"

	"github.com/Dosada05/tournament-standings/models"
)

// Derive computes everything the UI shows for one snapshot. The snapshot is
// not modified.
func Derive(logger *slog.Logger, snap *models.Snapshot) *models.TournamentView {
	t := snap.Tournament
	matches := NormalizeAll(logger, snap.Matches)
	completion := DetectCompletion(t.Format, matches)

	view := &models.TournamentView{
		Tournament: t,
		Standings:  Standings(matches, completion),
		Bracket:    BracketView(t.Format, matches),
		Completion: completion,
		NextAction: string(NextAction(t, matches, completion)),
		FetchedAt:  snap.FetchedAt,
	}

	switch {
	case t.Format == models.FormatRoundRobin:
		grid := RoundRobinGrid(matches)
		view.Grid = &grid
	case t.Format.Chained():
		grid := RoundRobinGrid(RoundRobinStage(matches))
		view.Grid = &grid
	case t.Format == models.FormatSwiss:
		view.Swiss = SwissRounds(matches)
	}

	if view.Standings == nil {
		view.Standings = []models.Standing{}
	}
	if view.Bracket == nil {
		view.Bracket = []models.BracketSection{}
	}
	return view
}
