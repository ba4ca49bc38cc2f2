package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evagobi/pkg/contracts/events"
)

type received struct {
	Type    events.MessageType     `json:"type"`
	TraceID string                 `json:"trace_id"`
	Data    map[string]interface{} `json:"data"`
}

func startServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := gorilla.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, NewConnectionWrapper(conn), "trace-123", nil).Serve()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *gorilla.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg received
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(HubConfig{PingPeriod: time.Second, PongWait: 2 * time.Second}, nil)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func TestHub_ConnectAndBroadcast(t *testing.T) {
	hub := newTestHub(t)
	conn := dial(t, startServer(t, hub))

	hello := readMessage(t, conn)
	assert.Equal(t, events.MessageTypeConnect, hello.Type)
	assert.Equal(t, "trace-123", hello.TraceID)
	assert.Equal(t, "connected", hello.Data["status"])

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastSnapshot(events.OperationSnapshot{OperationID: "op-1", Status: "running", Progress: 50})

	msg := readMessage(t, conn)
	assert.Equal(t, events.MessageTypeOperationSnapshot, msg.Type)
	assert.Equal(t, "op-1", msg.Data["operation_id"])
	assert.Equal(t, "running", msg.Data["status"])
	assert.Equal(t, float64(50), msg.Data["progress"])
}

func TestHub_ReplaysSnapshotsToNewClients(t *testing.T) {
	hub := newTestHub(t)
	hub.SetReplay(func() []events.OperationSnapshot {
		return []events.OperationSnapshot{{OperationID: "op-9", Status: "completed"}}
	})
	conn := dial(t, startServer(t, hub))

	assert.Equal(t, events.MessageTypeConnect, readMessage(t, conn).Type)
	replayed := readMessage(t, conn)
	assert.Equal(t, events.MessageTypeOperationSnapshot, replayed.Type)
	assert.Equal(t, "op-9", replayed.Data["operation_id"])
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub := newTestHub(t)
	conn := dial(t, startServer(t, hub))
	readMessage(t, conn)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(HubConfig{}, nil)
	hub.Start()
	conn := dial(t, startServer(t, hub))
	readMessage(t, conn)

	hub.Stop()
	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewHub(HubConfig{}, nil)

	for i := 0; i < broadcastBuffer+5; i++ {
		hub.BroadcastSnapshot(events.OperationSnapshot{OperationID: "op"})
	}

	metrics := hub.GetHubMetrics()
	assert.Equal(t, int64(5), metrics["messages_dropped"])
}

func TestNewHub_Defaults(t *testing.T) {
	hub := NewHub(HubConfig{PingPeriod: 10 * time.Second, PongWait: time.Second}, nil)
	assert.Equal(t, 20*time.Second, hub.cfg.PongWait)

	hub = NewHub(HubConfig{}, nil)
	assert.Greater(t, hub.cfg.PongWait, hub.cfg.PingPeriod)
}
