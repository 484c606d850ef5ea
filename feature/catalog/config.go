package catalog

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds configuration for the remote catalog client.
type Config struct {
	// BaseURL is the first page of the paginated swatch collection.
	BaseURL string `mapstructure:"base_url" default:"https://filamentcolors.xyz/api/swatch/"`
	// PageDelayMS is the minimum delay between the end of one page response and the next request.
	PageDelayMS int `mapstructure:"page_delay_ms" default:"1000"`
	// MaxPages bounds a single walk against cyclic or unbounded cursors.
	MaxPages int `mapstructure:"max_pages" default:"500"`
	// RequestTimeoutSeconds bounds a single page request.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" default:"30"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"filament-sync/1.0"`
}

// Validate checks the catalog settings.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive, got %d", c.MaxPages)
	}
	if c.PageDelayMS < 0 {
		return fmt.Errorf("page_delay_ms must not be negative, got %d", c.PageDelayMS)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}

// PageDelay returns the politeness delay as a duration.
func (c Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMS) * time.Millisecond
}

// RequestTimeout returns the per-request timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
