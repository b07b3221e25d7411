package handlers

import (
	"net/http"

	"github.com/Dosada05/tournament-standings/brackets"
)

type HealthHandler struct {
	hub *brackets.Hub
}

func NewHealthHandler(hub *brackets.Hub) *HealthHandler {
	return &HealthHandler{hub: hub}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	env := jsonResponse{
		"status":            "ok",
		"websocket_clients": h.hub.ClientCount(),
		"watched":           len(h.hub.ActiveRooms()),
	}
	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
