// Package awards tracks which custom bonuses have been applied to which
// scores, so a duplicate award is rejected instead of silently doubled.
package awards

import (
	"context"
	"sync"
	"sync/atomic"
)

// Guard records (score, bonus) pairs to enforce at-most-once awarding.
//
// Unlike an eviction-bounded dedupe cache, the guard must never forget a
// recorded pair: forgetting one would re-admit a duplicate award. The
// set is small (one entry per awarded bonus per event night), so it is
// kept unbounded.
type Guard interface {
	// SeenAndRecord atomically checks whether the pair was recorded and
	// records it if not. Returns true if it was already recorded.
	SeenAndRecord(ctx context.Context, scoreID, bonusID string) bool

	// Unrecord removes a pair, allowing the award to be retried after a
	// downstream failure.
	Unrecord(ctx context.Context, scoreID, bonusID string)

	Size() int64
}

type pair struct {
	scoreID string
	bonusID string
}

type inMemoryGuard struct {
	mu   sync.Mutex
	seen map[pair]struct{}
	size atomic.Int64
}

// NewInMemoryGuard creates an in-memory award guard.
func NewInMemoryGuard(opts ...Option) Guard {
	g := &inMemoryGuard{}
	for _, opt := range opts {
		opt(g)
	}
	if g.seen == nil {
		g.seen = make(map[pair]struct{})
	}
	return g
}

func (g *inMemoryGuard) SeenAndRecord(_ context.Context, scoreID, bonusID string) bool {
	p := pair{scoreID: scoreID, bonusID: bonusID}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.seen[p]; exists {
		return true
	}
	g.seen[p] = struct{}{}
	g.size.Add(1)
	return false
}

func (g *inMemoryGuard) Unrecord(_ context.Context, scoreID, bonusID string) {
	p := pair{scoreID: scoreID, bonusID: bonusID}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.seen[p]; exists {
		delete(g.seen, p)
		g.size.Add(-1)
	}
}

func (g *inMemoryGuard) Size() int64 {
	return g.size.Load()
}
