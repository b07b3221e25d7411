package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/tournament-standings/models"
	"github.com/Dosada05/tournament-standings/services"
	"github.com/Dosada05/tournament-standings/session"
	"github.com/Dosada05/tournament-standings/storage"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

// loadView resolves the tournament id and derives its view, writing the
// error response itself when either step fails.
func (h *TournamentHandler) loadView(w http.ResponseWriter, r *http.Request) (*models.TournamentView, bool) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return nil, false
	}
	view, err := h.tournamentService.View(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return nil, false
	}
	return view, true
}

// respond writes one part of the view along with its freshness.
func respond(w http.ResponseWriter, r *http.Request, view *models.TournamentView, key string, data interface{}) {
	env := jsonResponse{
		key:          data,
		"stale":      view.Stale,
		"fetched_at": view.FetchedAt,
	}
	if view.Notice != "" {
		env["notice"] = view.Notice
	}
	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	respond(w, r, view, "standings", view.Standings)
}

func (h *TournamentHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	sections, err := services.BracketSections(view, r.URL.Query().Get("type"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	respond(w, r, view, "bracket", sections)
}

func (h *TournamentHandler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	respond(w, r, view, "completion", jsonResponse{
		"detected":      view.Completion.Detected,
		"complete":      view.Completion.Complete,
		"winner_id":     view.Completion.WinnerID,
		"winner":        view.Completion.Winner,
		"reset_pending": view.Completion.ResetPending,
		"next_action":   view.NextAction,
	})
}

func (h *TournamentHandler) GetGrid(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	if view.Grid == nil {
		errorResponse(w, r, http.StatusNotFound, "tournament has no round robin stage")
		return
	}
	respond(w, r, view, "grid", view.Grid)
}

func (h *TournamentHandler) GetSwiss(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadView(w, r)
	if !ok {
		return
	}
	if view.Tournament.Format != models.FormatSwiss && !view.Stale {
		errorResponse(w, r, http.StatusNotFound, "tournament is not a swiss tournament")
		return
	}
	rounds := view.Swiss
	if rounds == nil {
		rounds = []models.SwissRound{}
	}
	respond(w, r, view, "swiss", rounds)
}

func (h *TournamentHandler) ExportStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	result, err := h.tournamentService.Export(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if result.URL != "" {
		if err := writeJSON(w, http.StatusOK, jsonResponse{"url": result.URL, "filename": result.Filename, "stale": result.Stale}, nil); err != nil {
			serverErrorResponse(w, r, err)
		}
		return
	}

	w.Header().Set("Content-Type", storage.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("X-Standings-Stale", strconv.FormatBool(result.Stale))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (h *TournamentHandler) Advance(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	sess, err := session.FromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrAuthenticationFailed)
		return
	}

	result, err := h.tournamentService.Advance(r.Context(), sess, tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type submitScoreRequest struct {
	Score1 string `json:"score1"`
	Score2 string `json:"score2"`
}

func (h *TournamentHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	sess, err := session.FromContext(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, services.ErrAuthenticationFailed)
		return
	}

	var req submitScoreRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.tournamentService.SubmitScore(r.Context(), sess, services.ScoreInput{
		TournamentID: tournamentID,
		MatchID:      strconv.Itoa(matchID),
		Score1:       req.Score1,
		Score2:       req.Score2,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
