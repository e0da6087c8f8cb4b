package app

import (
	"github.com/openscore/scorenight/internal/adapters/repository"
	"github.com/openscore/scorenight/internal/domain/model"
	"github.com/openscore/scorenight/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the capacity of the display message queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSubscriberBuffer sets the per-display channel buffer size.
func WithSubscriberBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.subscriberBuffer = size
		}
	}
}

// WithRevealDBPath selects the sqlite file backing reveal state. An
// empty path keeps reveal state in memory only.
func WithRevealDBPath(path string) Option {
	return func(s *Service) {
		s.dbPath = path
	}
}

// WithEventStore injects a pre-seeded event store.
func WithEventStore(store *repository.EventStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRevealStore injects a custom reveal store.
func WithRevealStore(store repository.RevealStore) Option {
	return func(s *Service) {
		if store != nil {
			s.reveal = store
		}
	}
}

// WithPointValues overrides the individual scoring weights. A nil map
// keeps the defaults; an explicit empty map zeroes every category.
func WithPointValues(points model.PointValues) Option {
	return func(s *Service) {
		if points != nil {
			s.points = points
		}
	}
}

// WithBonusValues overrides the team all-in bonus weights. A nil map
// keeps the defaults; an explicit empty map disables them.
func WithBonusValues(bonus model.BonusValues) Option {
	return func(s *Service) {
		if bonus != nil {
			s.bonus = bonus
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
