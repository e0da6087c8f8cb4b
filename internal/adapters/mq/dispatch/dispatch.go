// Package dispatch drains the display queue into the broadcast hub.
package dispatch

import (
	"context"
	"fmt"

	"github.com/openscore/scorenight/internal/domain/display"
	"github.com/openscore/scorenight/pkg/logger"
)

// Queue defines how the dispatcher receives display messages.
type Queue interface {
	Dequeue(ctx context.Context) <-chan display.Message
}

// Sink receives each dequeued message. Broadcast returns the number of
// subscribers the message was delivered to.
type Sink interface {
	Broadcast(m display.Message) int
}

// Dispatcher moves messages from the queue to the sink, one at a time,
// preserving enqueue order.
type Dispatcher struct {
	queue Queue
	sink  Sink
	name  string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a dispatcher with configuration options.
func New(q Queue, sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:    q,
		sink:     sink,
		name:     "dispatcher",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("dispatcher"),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run drains the queue until ctx is cancelled, Shutdown is called, or
// the queue closes.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	messages := d.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.shutdown:
			return
		case m, ok := <-messages:
			if !ok {
				return
			}
			delivered := d.sink.Broadcast(m)
			d.logger.Debug(ctx, "message dispatched",
				logger.String("id", m.ID),
				logger.String("type", string(m.Type)),
				logger.Int("delivered", delivered),
			)
		}
	}
}

// Shutdown stops the dispatcher and waits for the loop to exit.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	close(d.shutdown)

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
