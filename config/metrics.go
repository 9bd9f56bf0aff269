package config

import (
	"fmt"
	"strings"
)

// MetricsConfig controls the optional metrics sinks. Prometheus exposes a
// scrape endpoint from the daemon; InfluxDB activates once a URL is set.
type MetricsConfig struct {
	PromEnabled bool         `json:"prometheus_enabled"`
	PromAddr    string       `json:"prometheus_addr"`
	Influx      InfluxConfig `json:"influx"`
}

// InfluxConfig holds connection parameters for an InfluxDB v2 sink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// Enabled reports whether the Influx sink is configured.
func (c InfluxConfig) Enabled() bool {
	return c.URL != ""
}

// SetDefaults fills optional fields with their defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PromAddr == "" {
		c.PromAddr = ":9090"
	}
}

// Validate checks the sink settings for inconsistencies.
func (c *MetricsConfig) Validate() error {
	if c.PromEnabled && !strings.Contains(c.PromAddr, ":") {
		return fmt.Errorf("metrics: prometheus_addr %q must be host:port", c.PromAddr)
	}
	if c.Influx.URL != "" && (c.Influx.Org == "" || c.Influx.Bucket == "") {
		return fmt.Errorf("metrics: influx requires org and bucket")
	}
	return nil
}
