package brackets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomNames(t *testing.T) {
	room := RoomForTournament(42)
	assert.Equal(t, "tournament_42", room)

	id, ok := TournamentFromRoom(room)
	require.True(t, ok)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"42", "tournament_", "tournament_x", "tournament_-1", "match_42"} {
		_, ok := TournamentFromRoom(bad)
		assert.False(t, ok, bad)
	}
}

func TestHubBroadcastsToRoomMembers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(discardLogger())
	var clients atomic.Int64
	hub.OnClientCountChange(func(n int) { clients.Store(int64(n)) })
	go hub.Run(ctx)

	inRoom := NewClient(hub, nil, RoomForTournament(1))
	otherRoom := NewClient(hub, nil, RoomForTournament(2))
	require.True(t, hub.Subscribe(inRoom))
	require.True(t, hub.Subscribe(otherRoom))

	require.Eventually(t, func() bool { return clients.Load() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"tournament_1", "tournament_2"}, hub.ActiveRooms())

	delivered := hub.BroadcastToRoom(RoomForTournament(1), WebSocketMessage{Type: MessageViewUpdated, Payload: map[string]int{"round": 3}})
	assert.Equal(t, 1, delivered)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(<-inRoom.Send, &msg))
	assert.Equal(t, MessageViewUpdated, msg["type"])
	assert.Equal(t, "tournament_1", msg["room_id"])
	assert.Empty(t, otherRoom.Send)

	assert.Zero(t, hub.BroadcastToRoom("tournament_9", WebSocketMessage{Type: MessageViewUpdated}))
}

func TestHubUnregisterClosesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(discardLogger())
	go hub.Run(ctx)

	c := NewClient(hub, nil, RoomForTournament(5))
	require.True(t, hub.Subscribe(c))
	hub.Unregister <- c

	_, open := <-c.Send
	assert.False(t, open)
	require.Eventually(t, func() bool { return len(hub.ActiveRooms()) == 0 }, time.Second, 5*time.Millisecond)
	assert.False(t, c.deliver([]byte("late")))
}

func TestHubStopRejectsSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(discardLogger())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient(hub, nil, RoomForTournament(1))
	require.True(t, hub.Subscribe(c))
	cancel()
	<-stopped

	_, open := <-c.Send
	assert.False(t, open)
	assert.False(t, hub.Subscribe(NewClient(hub, nil, RoomForTournament(1))))
	assert.Zero(t, hub.ClientCount())
}

func TestClientSendMessage(t *testing.T) {
	c := NewClient(nil, nil, RoomForTournament(3))
	require.True(t, c.SendMessage(WebSocketMessage{Type: MessageViewUpdated, Payload: "hello"}))

	var msg map[string]any
	require.NoError(t, json.Unmarshal(<-c.Send, &msg))
	assert.Equal(t, "tournament_3", msg["room_id"])
	assert.Equal(t, "hello", msg["payload"])

	c.close()
	assert.False(t, c.SendMessage(WebSocketMessage{Type: MessageViewUpdated}))
}

func TestWritePumpFlushesQueueThenCloses(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(nil, conn, RoomForTournament(5))
		for round := 1; round <= 3; round++ {
			c.SendMessage(WebSocketMessage{Type: MessageViewUpdated, Payload: map[string]int{"round": round}})
		}
		c.close()
		c.WritePump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	for round := 1; round <= 3; round++ {
		kind, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, kind)

		var msg struct {
			Payload map[string]int `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, round, msg.Payload["round"])
	}

	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	assert.ErrorAs(t, err, &closeErr)
}
