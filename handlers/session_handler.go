package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-standings/session"
)

type SessionHandler struct {
	provider *session.Provider
	logger   *slog.Logger
}

func NewSessionHandler(provider *session.Provider, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{provider: provider, logger: logger}
}

// Logout ends the caller's session; the token is rejected from then on.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := session.FromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	h.provider.Revoke(sess)
	h.logger.Info("session ended", slog.Int("user_id", sess.UserID))

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "logged out"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
