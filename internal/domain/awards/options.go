package awards

// Option applies a configuration option to the in-memory guard.
type Option func(*inMemoryGuard)

// WithInitialCapacity pre-sizes the underlying set.
func WithInitialCapacity(n int) Option {
	return func(g *inMemoryGuard) {
		if n > 0 {
			g.seen = make(map[pair]struct{}, n)
		}
	}
}
