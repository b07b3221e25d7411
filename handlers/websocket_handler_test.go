package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-standings/brackets"
	"github.com/Dosada05/tournament-standings/services"
)

func newWebSocketServer(t *testing.T, svc services.TournamentService) (*httptest.Server, *brackets.Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := brackets.NewHub(discardLogger())
	go hub.Run(ctx)

	r := chi.NewRouter()
	r.Get("/ws/tournaments/{tournamentID}", NewWebSocketHandler(hub, svc, nil, discardLogger()).ServeWs)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func TestServeWsSendsCurrentViewAndBroadcasts(t *testing.T) {
	srv, hub := newWebSocketServer(t, &fakeService{view: sampleView()})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/12"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var first brackets.WebSocketMessage
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, brackets.MessageViewUpdated, first.Type)
	assert.Equal(t, "tournament_12", first.RoomID)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, 1, hub.BroadcastToRoom("tournament_12", brackets.WebSocketMessage{Type: brackets.MessageViewUpdated, Payload: "next"}))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var second map[string]any
	require.NoError(t, json.Unmarshal(data, &second))
	assert.Equal(t, "next", second["payload"])
}

func TestServeWsUnknownTournament(t *testing.T) {
	srv, hub := newWebSocketServer(t, &fakeService{viewErr: services.ErrTournamentNotFound})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/tournaments/12"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Zero(t, hub.ClientCount())
}
