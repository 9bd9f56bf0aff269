package config

import (
	"fmt"
	"time"
)

// FetcherConfig controls the provider page automation.
type FetcherConfig struct {
	// PageURL is the provider's shutdowns page.
	PageURL string `json:"page_url"`
	// TimeoutSeconds bounds one whole fetch, navigation included.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Headful runs the browser with a visible window, for debugging the
	// form automation.
	Headful bool `json:"headful"`
}

// SetDefaults applies sane defaults.
func (c *FetcherConfig) SetDefaults() {
	if c.PageURL == "" {
		c.PageURL = "https://www.dtek-dnem.com.ua/ua/shutdowns"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 90
	}
}

// Timeout returns the whole-fetch budget as a duration.
func (c FetcherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks mandatory fields.
func (c FetcherConfig) Validate() error {
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("fetcher timeout must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}
