package swatch

import "time"

// SyncConfig holds configuration for the scheduled sync.
type SyncConfig struct {
	// IntervalHours is the wait between the end of one pass and the start of the next.
	IntervalHours int `mapstructure:"interval_hours" default:"24"`
	// Enabled starts the scheduler with the HTTP server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// DryRun stages passes without writing them.
	DryRun bool `mapstructure:"dry_run" default:"false"`
}

// Interval returns the scheduler interval.
func (c SyncConfig) Interval() time.Duration {
	return time.Duration(c.IntervalHours) * time.Hour
}
