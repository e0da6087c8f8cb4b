// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RevealDBPath points at the sqlite file persisting reveal state.
	// Empty keeps reveal state in memory only.
	RevealDBPath string `koanf:"reveal_db_path"`

	// QueueSize bounds the in-memory display message queue.
	QueueSize int `koanf:"queue_size"`

	// SubscriberBuffer sets the per-display channel buffer.
	SubscriberBuffer int `koanf:"subscriber_buffer"`

	// PointValues maps metric categories to individual point weights.
	PointValues map[string]int `koanf:"point_values"`

	// BonusValues maps metric categories to team all-in bonus weights.
	BonusValues map[string]int `koanf:"bonus_values"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		RevealDBPath:     "scorenight.db",
		QueueSize:        1024,
		SubscriberBuffer: 32,
	}
}
