package realtime

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func register(t *testing.T, hub *Hub, room string) *Client {
	t.Helper()
	before := hub.RoomSize(room)
	c := &Client{Hub: hub, Send: make(chan []byte, 4), Room: room}
	hub.Register <- c
	require.Eventually(t, func() bool { return hub.RoomSize(room) == before+1 }, time.Second, 5*time.Millisecond)
	return c
}

func TestHub_NotifyOnlyReachesRoom(t *testing.T) {
	hub := newTestHub(t)
	inRoom := register(t, hub, "match_1")
	other := register(t, hub, "match_2")

	hub.Notify("match_1", "MATCH_UPDATED", map[string]int{"home_score": 3})

	select {
	case raw := <-inRoom.Send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "MATCH_UPDATED", msg.Type)
		assert.Equal(t, "match_1", msg.RoomID)
		assert.NotEmpty(t, msg.ID)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
	assert.Empty(t, other.Send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := newTestHub(t)
	c := register(t, hub, "event_9")

	hub.Unregister <- c
	require.Eventually(t, func() bool { return hub.RoomSize("event_9") == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)

	// Broadcasting to an empty room is a no-op.
	hub.Notify("event_9", "MATCH_UPDATED", nil)
}

func TestHub_FullBufferSkipsClient(t *testing.T) {
	hub := newTestHub(t)
	c := register(t, hub, "match_3")
	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("x")
	}

	done := make(chan struct{})
	go func() {
		hub.Notify("match_3", "MATCH_ACTION", nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}

type recordingSink struct {
	rooms []string
}

func (r *recordingSink) Notify(roomID, msgType string, payload interface{}) {
	r.rooms = append(r.rooms, roomID+"/"+msgType)
}

func TestFanout(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	Fanout{a, nil, b}.Notify("match_1", "MATCH_UPDATED", nil)

	assert.Equal(t, []string{"match_1/MATCH_UPDATED"}, a.rooms)
	assert.Equal(t, []string{"match_1/MATCH_UPDATED"}, b.rooms)
}

func TestEncodeMessageUsesJSONNames(t *testing.T) {
	data, err := encodeMessage(WebSocketMessage{ID: "abc", Type: "MATCH_UPDATED", RoomID: "match_4"})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, msgpack.NewDecoder(bytes.NewReader(data)).Decode(&decoded))
	assert.Equal(t, "MATCH_UPDATED", decoded["type"])
	assert.Equal(t, "match_4", decoded["room_id"])
}
