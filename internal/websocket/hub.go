package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"evagobi/internal/config"
	"evagobi/internal/infrastructure"
	"evagobi/pkg/contracts/events"
)

const broadcastBuffer = 64

// HubConfig holds the connection keep-alive settings
type HubConfig struct {
	PingPeriod time.Duration
	PongWait   time.Duration
}

// HubConfigFrom converts the websocket section of the application config
func HubConfigFrom(cfg config.WebSocketConfig) HubConfig {
	return HubConfig{PingPeriod: cfg.PingPeriod, PongWait: cfg.PongWait}
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	cfg HubConfig

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	// replay returns the snapshots a newly connected client receives
	replay func() []events.OperationSnapshot

	totalConnections atomic.Int64
	messagesSent     atomic.Int64
	messagesDropped  atomic.Int64

	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewHub creates a new Hub. Call Start before serving clients.
func NewHub(cfg HubConfig, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	if cfg.PingPeriod <= 0 {
		cfg.PingPeriod = config.WebSocketPingPeriod
	}
	if cfg.PongWait <= cfg.PingPeriod {
		cfg.PongWait = cfg.PingPeriod * 2
	}

	return &Hub{
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// SetReplay sets the source of snapshots sent to every new client
func (h *Hub) SetReplay(fn func() []events.OperationSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replay = fn
}

// Start starts the hub loop
func (h *Hub) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return
	}
	h.running = true
	go h.run()
}

// Stop stops the hub loop and disconnects every client
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) run() {
	defer close(h.done)
	for {
		select {
		case <-h.quit:
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	replay := h.replay
	h.mu.Unlock()
	h.totalConnections.Add(1)

	ctx := infrastructure.WithTraceID(context.Background(), client.traceID)
	h.logger.InfoContext(ctx, "Client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr))

	h.sendTo(client, events.MessageTypeConnect, map[string]interface{}{
		"status":    "connected",
		"client_id": client.id,
	})
	if replay != nil {
		for _, snapshot := range replay() {
			h.sendTo(client, events.MessageTypeOperationSnapshot, snapshot)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		ctx := infrastructure.WithTraceID(context.Background(), client.traceID)
		h.logger.InfoContext(ctx, "Client unregistered",
			slog.Int("total_clients", count),
			slog.String("client_id", client.id),
			slog.Duration("connection_duration", time.Since(client.connectedAt)))
	}
}

func (h *Hub) fanOut(message []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- message:
			h.messagesSent.Add(1)
		default:
			// a client that cannot keep up is disconnected
			h.removeClient(client)
			h.logger.Warn("Client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}
}

// sendTo queues one message for a single client; called from the hub loop
func (h *Hub) sendTo(client *Client, msgType events.MessageType, data interface{}) {
	payload, err := encode(msgType, data, client.traceID)
	if err != nil {
		h.logger.Error("Failed to encode message", slog.String("error", err.Error()))
		return
	}
	select {
	case client.send <- payload:
		h.messagesSent.Add(1)
	default:
		h.messagesDropped.Add(1)
	}
}

// BroadcastSnapshot sends an operation snapshot to every client
func (h *Hub) BroadcastSnapshot(snapshot events.OperationSnapshot) {
	h.Broadcast(events.MessageTypeOperationSnapshot, snapshot)
}

// Broadcast sends a message to every client. It never blocks: when the
// queue is full the message is dropped.
func (h *Hub) Broadcast(msgType events.MessageType, data interface{}) {
	payload, err := encode(msgType, data, "")
	if err != nil {
		h.logger.Error("Failed to encode broadcast", slog.String("error", err.Error()))
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.quit:
	default:
		h.messagesDropped.Add(1)
		h.logger.Warn("Broadcast queue full, message dropped",
			slog.String("type", string(msgType)))
	}
}

func encode(msgType events.MessageType, data interface{}, traceID string) ([]byte, error) {
	return json.Marshal(events.WebSocketMessage{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		TraceID:   traceID,
		Data:      data,
	})
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetHubMetrics returns the hub counters
func (h *Hub) GetHubMetrics() map[string]interface{} {
	return map[string]interface{}{
		"active_clients":    h.ClientCount(),
		"total_connections": h.totalConnections.Load(),
		"messages_sent":     h.messagesSent.Load(),
		"messages_dropped":  h.messagesDropped.Load(),
	}
}
