package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-standings/backend"
	"github.com/Dosada05/tournament-standings/brackets"
	"github.com/Dosada05/tournament-standings/export"
	"github.com/Dosada05/tournament-standings/metrics"
	"github.com/Dosada05/tournament-standings/models"
	"github.com/Dosada05/tournament-standings/repositories"
	"github.com/Dosada05/tournament-standings/session"
)

const (
	noticeStaleSnapshot = "Live results are unavailable. Showing results as of %s."
	noticeNoSnapshot    = "Live results are unavailable and no earlier results have been saved."
	noticeScoreMismatch = "Scores do not match the other team's report. Please double-check the match result."
)

// Backend is the part of the tournament API the service needs.
type Backend interface {
	Tournament(ctx context.Context, tournamentID int) (*models.Tournament, error)
	Matches(ctx context.Context, tournamentID int) ([]models.Match, error)
	UpdateMatchScore(ctx context.Context, in backend.ScoreUpdate) (*backend.MatchState, error)
	Generate(ctx context.Context, g backend.Generation, tournamentID int) (*backend.GenerationResult, error)
}

type Broadcaster interface {
	BroadcastToRoom(roomID string, message brackets.WebSocketMessage) int
}

type TournamentService interface {
	View(ctx context.Context, tournamentID int) (*models.TournamentView, error)
	Refresh(ctx context.Context, tournamentID int) (*models.TournamentView, error)
	SubmitScore(ctx context.Context, s *session.Session, in ScoreInput) (*ScoreResult, error)
	Advance(ctx context.Context, s *session.Session, tournamentID int) (*AdvanceResult, error)
	Export(ctx context.Context, tournamentID int) (*ExportResult, error)
}

type ScoreInput struct {
	TournamentID int
	MatchID      string
	Score1       string
	Score2       string
}

type ScoreResult struct {
	Match  *backend.MatchState    `json:"match"`
	Notice string                 `json:"notice,omitempty"`
	View   *models.TournamentView `json:"view"`
}

type AdvanceResult struct {
	Action         brackets.Action        `json:"action"`
	Message        string                 `json:"message,omitempty"`
	MatchesCreated int                    `json:"matches_created,omitempty"`
	View           *models.TournamentView `json:"view"`
}

// ExportResult carries either the workbook bytes or the URL it was
// published to.
type ExportResult struct {
	Filename string
	Data     []byte
	URL      string
	Stale    bool
}

type tournamentService struct {
	backend   Backend
	store     repositories.SnapshotRepository
	hub       Broadcaster
	publisher *export.Publisher
	metrics   metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewTournamentService wires the service. publisher may be nil, in which case
// exports are returned for streaming.
func NewTournamentService(
	api Backend,
	store repositories.SnapshotRepository,
	hub Broadcaster,
	publisher *export.Publisher,
	m metrics.Metrics,
	logger *slog.Logger,
) TournamentService {
	if m == nil {
		m = metrics.Noop{}
	}
	return &tournamentService{
		backend:   api,
		store:     store,
		hub:       hub,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// fetchSnapshot reads the tournament and its matches concurrently and saves
// the result as the last known good snapshot.
func (s *tournamentService) fetchSnapshot(ctx context.Context, tournamentID int) (*models.Snapshot, error) {
	s.metrics.IncRefreshRuns()

	var (
		tournament *models.Tournament
		matches    []models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tournament, err = s.backend.Tournament(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.backend.Matches(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, backend.ErrTournamentNotFound) {
			s.metrics.IncRefreshFailures("not_found")
			return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, tournamentID)
		}
		s.metrics.IncRefreshFailures("backend")
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	snap := &models.Snapshot{Tournament: *tournament, Matches: matches, FetchedAt: s.now().UTC()}
	if snap.Tournament.TournamentID == 0 {
		snap.Tournament.TournamentID = models.FlexInt(tournamentID)
	}
	s.save(ctx, snap)
	return snap, nil
}

func (s *tournamentService) save(ctx context.Context, snap *models.Snapshot) {
	if err := s.store.Save(ctx, snap); err != nil {
		s.logger.Warn("failed to save snapshot",
			slog.Int("tournament_id", int(snap.Tournament.TournamentID)), slog.Any("error", err))
	}
}

func (s *tournamentService) derive(snap *models.Snapshot) *models.TournamentView {
	start := time.Now()
	view := brackets.Derive(s.logger, snap)
	s.metrics.ObserveDerivationDuration(time.Since(start).Seconds())
	return view
}

// View derives the tournament view from live data. When the backend cannot
// be reached the last known good snapshot is used and the view is marked
// stale; a missing tournament is the only error.
func (s *tournamentService) View(ctx context.Context, tournamentID int) (*models.TournamentView, error) {
	snap, err := s.fetchSnapshot(ctx, tournamentID)
	if err == nil {
		return s.derive(snap), nil
	}
	if errors.Is(err, ErrTournamentNotFound) {
		return nil, err
	}

	s.logger.Warn("serving stale tournament view", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	s.metrics.IncStaleViews()
	return s.staleView(ctx, tournamentID), nil
}

func (s *tournamentService) staleView(ctx context.Context, tournamentID int) *models.TournamentView {
	snap, err := s.store.Get(ctx, tournamentID)
	if err != nil {
		if !errors.Is(err, repositories.ErrSnapshotNotFound) {
			s.logger.Warn("failed to load saved snapshot", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		}
		view := brackets.Derive(s.logger, &models.Snapshot{Tournament: models.Tournament{TournamentID: models.FlexInt(tournamentID)}})
		view.NextAction = string(brackets.ActionNone)
		view.Stale = true
		view.Notice = noticeNoSnapshot
		return view
	}

	view := s.derive(snap)
	view.Stale = true
	view.Notice = fmt.Sprintf(noticeStaleSnapshot, snap.FetchedAt.UTC().Format(time.RFC3339))
	return view
}

// Refresh derives the view and pushes it to the tournament's subscribers.
func (s *tournamentService) Refresh(ctx context.Context, tournamentID int) (*models.TournamentView, error) {
	view, err := s.View(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	s.broadcast(tournamentID, view)
	return view, nil
}

func (s *tournamentService) broadcast(tournamentID int, view *models.TournamentView) {
	if s.hub == nil {
		return
	}
	delivered := s.hub.BroadcastToRoom(brackets.RoomForTournament(tournamentID), brackets.WebSocketMessage{
		Type:    brackets.MessageViewUpdated,
		Payload: view,
	})
	s.logger.Debug("broadcast tournament view", slog.Int("tournament_id", tournamentID), slog.Int("clients", delivered))
}

func (in ScoreInput) parse() (int, int, error) {
	if strings.TrimSpace(in.MatchID) == "" {
		return 0, 0, fmt.Errorf("%w: match id is required", ErrValidationFailed)
	}
	score1, err1 := strconv.Atoi(strings.TrimSpace(in.Score1))
	score2, err2 := strconv.Atoi(strings.TrimSpace(in.Score2))
	if err1 != nil || err2 != nil || score1 < 0 || score2 < 0 {
		return 0, 0, fmt.Errorf("%w: scores must be non-negative whole numbers", ErrValidationFailed)
	}
	return score1, score2, nil
}

// SubmitScore records a team's reported score. Admins and the tournament
// creator may always edit; otherwise only the match's participants may, and
// only until both teams have agreed on the result.
func (s *tournamentService) SubmitScore(ctx context.Context, sess *session.Session, in ScoreInput) (*ScoreResult, error) {
	if sess == nil {
		return nil, ErrAuthenticationFailed
	}
	score1, score2, err := in.parse()
	if err != nil {
		return nil, err
	}

	snap, err := s.fetchSnapshot(ctx, in.TournamentID)
	if err != nil {
		return nil, err
	}
	match, ok := snap.FindMatch(in.MatchID)
	if !ok {
		return nil, fmt.Errorf("%w: match %s in tournament %d", ErrMatchNotFound, in.MatchID, in.TournamentID)
	}
	if match.Status == models.MatchStatusBye {
		return nil, ErrByeNotEditable
	}

	privileged := sess.IsAdmin() || isTournamentCreator(snap.Tournament, sess.UserID) || match.CreatedByUser(sess.UserID)
	reporter := match.TeamNumberOf(sess.UserID)
	if !privileged {
		if match.Verified == models.VerifiedBoth {
			return nil, ErrScoresLocked
		}
		if reporter == 0 {
			return nil, fmt.Errorf("%w: user %d is not playing in match %s", ErrForbiddenOperation, sess.UserID, in.MatchID)
		}
	}

	current1, ok1 := brackets.ParseScore(match.Score1)
	current2, ok2 := brackets.ParseScore(match.Score2)
	sameScores := ok1 && ok2 && current1 == score1 && current2 == score2
	verified, mismatch := brackets.NextVerification(match.Verified, reporter, privileged, sameScores)

	state, err := s.backend.UpdateMatchScore(backend.WithToken(ctx, sess.Token), backend.ScoreUpdate{
		MatchID:  in.MatchID,
		Score1:   strconv.Itoa(score1),
		Score2:   strconv.Itoa(score2),
		Verified: verified,
	})
	if err != nil {
		s.metrics.IncScoreSubmissions("failed")
		return nil, mapBackendError(err)
	}

	patched, _ := snap.WithMatch(in.MatchID, func(m models.Match) models.Match {
		m.Score1, m.Score2 = state.Score1, state.Score2
		if state.Status != "" {
			m.Status = state.Status
		}
		m.Verified = state.Verified
		return m
	})
	s.save(ctx, patched)
	view := s.derive(patched)
	s.broadcast(in.TournamentID, view)

	result := &ScoreResult{Match: state, View: view}
	switch {
	case mismatch:
		result.Notice = noticeScoreMismatch
		s.metrics.IncScoreSubmissions("mismatch")
	case state.Verified == models.VerifiedBoth:
		s.metrics.IncScoreSubmissions("verified")
	default:
		s.metrics.IncScoreSubmissions("reported")
	}

	s.logger.Info("match score submitted",
		slog.Int("tournament_id", in.TournamentID),
		slog.String("match_id", in.MatchID),
		slog.Int("user_id", sess.UserID),
		slog.Int("verified", state.Verified),
		slog.Bool("mismatch", mismatch))
	return result, nil
}

// Advance asks the backend to generate whatever the tournament needs next.
func (s *tournamentService) Advance(ctx context.Context, sess *session.Session, tournamentID int) (*AdvanceResult, error) {
	if sess == nil {
		return nil, ErrAuthenticationFailed
	}
	snap, err := s.fetchSnapshot(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() && !isTournamentCreator(snap.Tournament, sess.UserID) {
		return nil, fmt.Errorf("%w: only the organizer can advance tournament %d", ErrForbiddenOperation, tournamentID)
	}

	action := brackets.Action(s.derive(snap).NextAction)
	generation, err := generationFor(action, snap.Tournament.Format)
	if err != nil {
		return nil, err
	}

	generated, err := s.backend.Generate(backend.WithToken(ctx, sess.Token), generation, tournamentID)
	if err != nil {
		return nil, mapBackendError(err)
	}
	s.metrics.IncAdvances(string(action))
	s.logger.Info("tournament advanced",
		slog.Int("tournament_id", tournamentID),
		slog.String("action", string(action)),
		slog.String("generation", string(generation)))

	view, err := s.Refresh(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return &AdvanceResult{
		Action:         action,
		Message:        generated.Message,
		MatchesCreated: generated.MatchesCreated,
		View:           view,
	}, nil
}

func generationFor(action brackets.Action, format models.Format) (backend.Generation, error) {
	switch action {
	case brackets.ActionNone:
		return "", ErrNothingToAdvance
	case brackets.ActionCompleteCurrentRound:
		return "", ErrRoundInProgress
	case brackets.ActionGenerateNextRound:
		return backend.GenerateNextRound, nil
	case brackets.ActionGenerateSingleElimination:
		return backend.GenerateRoundRobinToSingleElimination, nil
	case brackets.ActionGenerateDoubleElimination:
		return backend.GenerateRoundRobinToDoubleElimination, nil
	case brackets.ActionGenerateInitial:
		switch format {
		case models.FormatSingleElimination:
			return backend.GenerateMatches, nil
		case models.FormatDoubleElimination:
			return backend.GenerateDoubleEliminationMatches, nil
		case models.FormatSwiss:
			return backend.GenerateSwissMatches, nil
		case models.FormatRoundRobin, models.FormatRoundRobinToSingleElim, models.FormatRoundRobinToDoubleElim:
			return backend.GenerateRoundRobinMatches, nil
		}
	}
	return "", fmt.Errorf("%w: no generation for %s in format %q", ErrValidationFailed, action, format)
}

// Export builds the standings workbook and publishes it when object storage
// is configured. A failed upload falls back to returning the bytes.
func (s *tournamentService) Export(ctx context.Context, tournamentID int) (*ExportResult, error) {
	view, err := s.View(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	data, err := export.Workbook(view)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	result := &ExportResult{Filename: export.Filename(view.Tournament), Stale: view.Stale}
	if s.publisher != nil {
		uploaded, err := s.publisher.Publish(ctx, tournamentID, data)
		if err == nil {
			result.URL = uploaded.Location
			s.metrics.IncExports("r2")
			return result, nil
		}
		s.logger.Warn("failed to publish export, streaming instead", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
	result.Data = data
	s.metrics.IncExports("stream")
	return result, nil
}

func isTournamentCreator(t models.Tournament, userID int) bool {
	return t.CreatedBy != nil && int(t.CreatedBy.UserID) == userID
}

func mapBackendError(err error) error {
	switch {
	case errors.Is(err, backend.ErrMatchNotFound):
		return fmt.Errorf("%w: %w", ErrMatchNotFound, err)
	case errors.Is(err, backend.ErrTournamentNotFound):
		return fmt.Errorf("%w: %w", ErrTournamentNotFound, err)
	case errors.Is(err, backend.ErrMutationRejected):
		return fmt.Errorf("%w: %w", ErrMutationRejected, err)
	}
	return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
}

// BracketSections picks the named section of the view's bracket, or all of
// them when name is empty.
func BracketSections(view *models.TournamentView, name string) ([]models.BracketSection, error) {
	switch name {
	case "":
		return view.Bracket, nil
	case string(models.BracketTypeWinners), string(models.BracketTypeLosers), string(models.BracketTypeChampionship),
		string(models.BracketTypeRoundRobin), string(models.BracketTypeSwiss), brackets.SectionElimination:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBracketType, name)
	}

	sections := []models.BracketSection{}
	for _, section := range view.Bracket {
		if section.Name == name {
			sections = append(sections, section)
		}
	}
	return sections, nil
}
