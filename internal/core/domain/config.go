package domain

import "time"

// Config holds the per-process tracker settings.
// Exclude is fixed for the lifetime of the process and never hot-reloaded.
type Config struct {
	Exclude        []string
	Debounce       time.Duration
	MaxPaths       int
	FloodThreshold int
	Listen         string
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		Exclude:        DefaultExclusions(),
		Debounce:       DefaultDebounce,
		MaxPaths:       DefaultMaxPaths,
		FloodThreshold: DefaultFloodThreshold,
		Listen:         DefaultListenAddr,
	}
}
