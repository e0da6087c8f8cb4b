// Package broadcast fans display messages out to connected displays.
package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/openscore/scorenight/internal/domain/display"
	"github.com/openscore/scorenight/pkg/logger"
	"github.com/openscore/scorenight/pkg/metrics"
)

const defaultSubscriberBuffer = 32

// Subscriber is one connected display. Messages arrive on C in
// broadcast order; the channel is closed on unsubscribe.
type Subscriber struct {
	ID string
	C  <-chan display.Message

	ch chan display.Message
}

// Hub retains the last message and the current reveal state so a
// display joining mid-event renders immediately instead of waiting for
// the next command. Slow subscribers are skipped, never waited on; the
// next self-contained message corrects whatever they missed.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscriber
	last   *display.Message
	reveal display.RevealState

	subscriberBuffer int
	logger           logger.Logger
}

// New creates a hub with configuration options.
func New(opts ...Option) *Hub {
	h := &Hub{
		subs:             make(map[string]*Subscriber),
		subscriberBuffer: defaultSubscriberBuffer,
		logger:           logger.Get().Named("hub"),
	}

	for _, opt := range opts {
		opt(h)
	}

	metrics.UpdateSubscriberCount(0)
	return h
}

// Subscribe registers a new display and returns it along with a
// snapshot message reflecting the current scene and reveal state.
func (h *Hub) Subscribe() (*Subscriber, display.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan display.Message, h.subscriberBuffer)
	sub := &Subscriber{ID: uuid.NewString(), C: ch, ch: ch}
	h.subs[sub.ID] = sub

	metrics.UpdateSubscriberCount(len(h.subs))
	metrics.RecordSnapshot()

	return sub, h.snapshotLocked()
}

// Unsubscribe removes a display and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(sub.ch)

	metrics.UpdateSubscriberCount(len(h.subs))
}

// Broadcast delivers the message to every subscriber and retains it as
// the current scene. Returns the number of subscribers reached.
func (h *Hub) Broadcast(m display.Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m.Reveal != nil {
		h.reveal = m.Reveal.Clone()
	} else {
		reveal := h.reveal.Clone()
		m.Reveal = &reveal
	}
	retained := m
	h.last = &retained

	delivered := 0
	for _, sub := range h.subs {
		select {
		case sub.ch <- m:
			delivered++
		default:
			metrics.RecordBroadcastDrop()
			h.logger.Warn(context.Background(), "subscriber buffer full, message dropped",
				logger.String("subscriber", sub.ID),
				logger.String("type", string(m.Type)),
			)
		}
	}

	metrics.RecordBroadcast()
	return delivered
}

// SetReveal updates the reveal state carried by future snapshots
// without pushing a new scene.
func (h *Hub) SetReveal(state display.RevealState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reveal = state.Clone()
	if h.last != nil {
		reveal := state.Clone()
		h.last.Reveal = &reveal
	}
}

// Snapshot returns the message a freshly connected display should render.
func (h *Hub) Snapshot() display.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshotLocked()
}

// SubscriberCount returns the number of connected displays.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
	metrics.UpdateSubscriberCount(0)
}

// snapshotLocked must be called with h.mu held.
func (h *Hub) snapshotLocked() display.Message {
	var m display.Message
	if h.last != nil {
		m = *h.last
	} else {
		m = display.New(display.ModeClear)
	}
	reveal := h.reveal.Clone()
	m.Reveal = &reveal
	return m
}
