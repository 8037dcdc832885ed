package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Qenawi/idle-mining/internal/engine"
	"github.com/Qenawi/idle-mining/internal/events"
	"github.com/Qenawi/idle-mining/internal/platform/logger"
	"github.com/Qenawi/idle-mining/internal/platform/metrics"
	"github.com/Qenawi/idle-mining/internal/platform/optimization"
)

// Frame types pushed to clients.
const (
	FrameSnapshot = "snapshot"
	FrameEvent    = "event"
)

// Frame is the envelope of every server-to-client message.
type Frame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	engine     *engine.Engine
	tuning     *optimization.Config
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub serving eng.
func NewHub(eng *engine.Engine, tuning *optimization.Config, log *logger.Logger) *Hub {
	if tuning == nil {
		tuning = optimization.DefaultConfig()
	}
	return &Hub{
		engine:     eng,
		tuning:     tuning,
		broadcast:  make(chan []byte, tuning.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			if len(h.clients) >= h.tuning.MaxClients {
				h.mu.Unlock()
				h.logger.Warn("WebSocket client rejected: hub is full")
				close(client.send)
				continue
			}
			h.clients[client] = true
			metrics.Get().RecordWSConnection(1)

			// Late joiners see the economy immediately.
			if payload, err := h.encode(h.snapshotFrame()); err == nil {
				h.offer(client, payload)
			}
			h.mu.Unlock()
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				h.offer(client, message)
			}
			h.mu.Unlock()
		}
	}
}

// offer queues message for client, dropping clients that cannot keep up. Caller holds mu.
func (h *Hub) offer(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		metrics.Get().RecordWSError()
		h.logger.Warn("WebSocket client too slow, disconnecting")
		h.drop(client)
	}
}

// drop removes client and closes its send channel. Caller holds mu.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	metrics.Get().RecordWSConnection(-1)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast serializes frame and queues it for every client.
// Frames are dropped when the hub is saturated.
func (h *Hub) Broadcast(frame Frame) {
	payload, err := h.encode(frame)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		metrics.Get().RecordWSError()
		h.logger.Warn("Broadcast queue full, dropping " + frame.Type + " frame")
	}
}

// BroadcastSnapshot pushes the current economy to all clients.
func (h *Hub) BroadcastSnapshot() {
	h.Broadcast(h.snapshotFrame())
}

// BroadcastEvent pushes one economy event to all clients.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	h.Broadcast(Frame{Type: FrameEvent, Data: event})
}

func (h *Hub) snapshotFrame() Frame {
	return Frame{Type: FrameSnapshot, Data: h.engine.View()}
}

func (h *Hub) encode(frame Frame) ([]byte, error) {
	payload, err := json.Marshal(frame)
	if err != nil {
		h.logger.WithError(err).Error("Failed to serialize " + frame.Type + " frame for WebSocket broadcast")
		return nil, err
	}
	return payload, nil
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes new events to the Hub.
// This allows the Hub to run independently from the Engine's tick loop while picking up the same events.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(h.tuning.EventPollInterval)
		defer pollInterval.Stop()

		lastSeq := eventLog.LastSeq()

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				for _, event := range eventLog.Since(lastSeq) {
					h.BroadcastEvent(event)
					lastSeq = event.Seq
				}
			}
		}
	}()
}

// StartSnapshotBroadcaster spawns a goroutine pushing a snapshot every interval.
func (h *Hub) StartSnapshotBroadcaster(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if h.ClientCount() > 0 {
					h.BroadcastSnapshot()
				}
			}
		}
	}()
}
