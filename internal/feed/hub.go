// Package feed pushes signal lifecycle events to dashboard subscribers and
// keeps aggregated stats fresh on a polling interval.
package feed

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/oficialtruesignal-bit/truesignal-engine/internal/metrics"
	"github.com/oficialtruesignal-bit/truesignal-engine/internal/models"
)

// EventType identifies what happened to the signal collection
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Event is one change notification on the signal collection. Delete events
// carry only the signal ID.
type Event struct {
	Type     EventType      `json:"type"`
	SignalID uuid.UUID      `json:"signal_id"`
	Signal   *models.Signal `json:"signal,omitempty"`
}

// Hub fans signal events out to websocket subscribers. Slow subscribers are
// dropped rather than allowed to block the broadcast path.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	logger      *logrus.Entry
	bufferSize  int
}

// NewHub creates an event hub
func NewHub(logger *logrus.Entry) *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
		logger:      logger,
		bufferSize:  16,
	}
}

// Publish delivers an event to every subscriber
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is not keeping up; skip this event for it
			h.logger.WithField("event", event.Type).Warn("Dropping feed event for slow subscriber")
		}
	}

	metrics.RecordFeedEventBroadcast()
}

// Subscribe registers a new event channel. The returned cancel function
// must be called when the subscriber goes away.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.bufferSize)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	metrics.ConnectedFeedClients.Set(float64(count))

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		count := len(h.subscribers)
		h.mu.Unlock()
		metrics.ConnectedFeedClients.Set(float64(count))
	}
	return ch, cancel
}

// SubscriberCount returns the number of active subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front of the API
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request to a websocket and streams feed events until
// the client disconnects or the context ends.
func (h *Hub) ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe()
	defer cancel()

	// Reader goroutine: we never expect client messages, but reading is
	// required to notice disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			return
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.logger.WithError(err).Debug("Feed subscriber write failed")
				return
			}
		}
	}
}
