package matcher

import "time"

// Config holds configuration for the nearest-color matcher.
type Config struct {
	// TTLHours bounds the age of the in-memory swatch snapshot.
	TTLHours int `mapstructure:"ttl_hours" default:"24"`
	// DefaultCount is the number of matches returned when none is requested.
	DefaultCount int `mapstructure:"default_count" default:"5"`
	// MaxCount caps the requested number of matches.
	MaxCount int `mapstructure:"max_count" default:"50"`
}

// TTL returns the snapshot time-to-live.
func (c Config) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}
