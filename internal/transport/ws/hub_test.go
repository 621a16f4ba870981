package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/ntmanager-backend/internal/domain"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var f frame
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

func TestHub_RetainedFrameReplayedOnConnect(t *testing.T) {
	t.Parallel()

	hub, url := newTestHub(t)
	require.NoError(t, hub.Retain(TypeTimeline, map[string]int{"paidToday": 3}))

	conn := dial(t, url)

	f := read(t, conn)
	assert.Equal(t, TypeTimeline, f.Type)
	assert.JSONEq(t, `{"paidToday":3}`, string(f.Data))
}

func TestHub_NotifyBroadcasts(t *testing.T) {
	t.Parallel()

	hub, url := newTestHub(t)
	a, b := dial(t, url), dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 2 }, 2*time.Second, 5*time.Millisecond)

	err := hub.Notify(context.Background(), domain.Notification{
		OperationID: "op-1",
		Kind:        domain.BatchKindBulkDeletion,
		TargetID:    "wo-1",
		Count:       3,
		Message:     "Work order deleted with 3 items",
	})
	require.NoError(t, err)

	for _, conn := range []*websocket.Conn{a, b} {
		f := read(t, conn)
		assert.Equal(t, TypeNotification, f.Type)

		var msg NotificationMessage
		require.NoError(t, json.Unmarshal(f.Data, &msg))
		assert.Equal(t, "bulk_deletion", msg.Kind)
		assert.Equal(t, 3, msg.Count)
	}
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	t.Parallel()

	hub, url := newTestHub(t)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_CloseRejectsNewClients(t *testing.T) {
	t.Parallel()

	hub, url := newTestHub(t)
	hub.Close()

	conn := dial(t, url)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()

	assert.Error(t, err)
	assert.Zero(t, hub.Clients())
}
