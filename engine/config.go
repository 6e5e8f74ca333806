package engine

import "log/slog"

// Config holds configuration for the Engine.
type Config struct {
	// Locale is the BCP 47 tag used for locale-aware sort comparisons.
	// Default: "en"
	Locale string

	// Logger receives engine diagnostics (page appends, dropped duplicates,
	// discarded stale fetches). Default: slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Locale: "en",
	}
}

// validate ensures config values are usable.
func (c *Config) validate() {
	if c.Locale == "" {
		c.Locale = "en"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
