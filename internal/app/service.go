// Package app implements the referee console controller. It owns the
// authoritative mutation order: every command updates state first, then
// publishes one self-contained display message through the queue.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/openscore/scorenight/internal/adapters/broadcast"
	"github.com/openscore/scorenight/internal/adapters/mq/dispatch"
	"github.com/openscore/scorenight/internal/adapters/mq/queue"
	"github.com/openscore/scorenight/internal/adapters/repository"
	"github.com/openscore/scorenight/internal/domain/awards"
	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/internal/domain/scoring"
	"github.com/openscore/scorenight/pkg/logger"
)

// Default service configuration constants.
const (
	defaultQueueSize        = 1024
	defaultSubscriberBuffer = 32
)

// Service wires the event store, reveal store, aggregator, queue, hub
// and dispatcher together behind the command surface the HTTP API uses.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      *repository.EventStore
	reveal     repository.RevealStore
	guard      awards.Guard
	aggregator *scoring.Aggregator
	queue      *queue.InMemoryQueue
	hub        *broadcast.Hub
	dispatcher *dispatch.Dispatcher

	// Configuration
	queueSize        int
	subscriberBuffer int
	dbPath           string
	points           model.PointValues
	bonus            model.BonusValues

	// State
	currentSessionID string
	started          bool
	cancelRun        context.CancelFunc

	// Logging
	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:        defaultQueueSize,
		subscriberBuffer: defaultSubscriberBuffer,
		points:           model.DefaultPointValues(),
		bonus:            model.DefaultBonusValues(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("console")
	}

	s.logger.Info(ctx, "starting console service...")

	if s.store == nil {
		s.store = repository.NewEventStore()
	}
	if s.reveal == nil {
		if s.dbPath != "" {
			store, err := repository.OpenSQLiteRevealStore(s.dbPath)
			if err != nil {
				return fmt.Errorf("open reveal store: %w", err)
			}
			s.reveal = store
			s.logger.Info(ctx, "using sqlite reveal store", logger.String("path", s.dbPath))
		} else {
			s.reveal = repository.NewMemRevealStore()
			s.logger.Info(ctx, "using in-memory reveal store")
		}
	}

	s.guard = awards.NewInMemoryGuard()
	s.aggregator = scoring.New(
		scoring.WithPointValues(s.points),
		scoring.WithBonusValues(s.bonus),
	)
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.hub = broadcast.New(
		broadcast.WithSubscriberBuffer(s.subscriberBuffer),
	)
	s.dispatcher = dispatch.New(s.queue, s.hub)

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancelRun = cancel
	go s.dispatcher.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "console service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("subscriberBuffer", s.subscriberBuffer),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(ctx, "stopping console service...")

	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.dispatcher != nil {
		if err := s.dispatcher.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "dispatcher shutdown", logger.Error(err))
		}
	}
	if s.hub != nil {
		s.hub.Close()
	}
	if s.cancelRun != nil {
		s.cancelRun()
	}
	if s.reveal != nil {
		if err := s.reveal.Close(); err != nil {
			s.logger.Warn(ctx, "reveal store close", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "console service stopped")
}

// Hub exposes the broadcast hub for the websocket adapter.
func (s *Service) Hub() *broadcast.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// Store exposes the event store for seeding and administration.
func (s *Service) Store() *repository.EventStore {
	return s.store
}

// CurrentSessionID returns the selected session, or "" when none is.
func (s *Service) CurrentSessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentSessionID
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"queueSize":      s.queueSize,
		"currentSession": s.currentSessionID,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(context.Background())
		stats["subscribers"] = s.hub.SubscriberCount()
		stats["recordedAwards"] = s.guard.Size()
	}
	return stats
}

// currentSession resolves the selected session from the store.
func (s *Service) currentSession(ctx context.Context) (model.Session, error) {
	s.mu.RLock()
	id := s.currentSessionID
	s.mu.RUnlock()

	if id == "" {
		return model.Session{}, ErrNoActiveSession
	}
	return s.store.Session(ctx, id)
}
