package server

import (
	"fmt"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey protects the API when set. An empty key leaves the read-only API open.
	ApiKey string `mapstructure:"api_key" default:""`
	// MaxPageSize caps the pageSize query parameter of listing endpoints.
	MaxPageSize int `mapstructure:"max_page_size" default:"100"`
}

// Validate checks that the server settings are usable.
func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Port)
	}
	if c.MaxPageSize <= 0 {
		return fmt.Errorf("max_page_size must be positive, got %d", c.MaxPageSize)
	}
	return nil
}
