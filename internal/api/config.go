package api

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:3000/api"
	DefaultTimeout = 15 * time.Second
)

// Config holds settings for the backend API client.
type Config struct {
	// BaseURL is the proxy (or backend) root, e.g. http://localhost:3000/api.
	BaseURL string

	// Timeout bounds every request made by the client.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("api base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api base URL %q: scheme must be http or https", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
