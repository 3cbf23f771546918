// Package config handles configuration for the HealthPod CLI.
package config

import "time"

// Config holds runtime settings for the HealthPod CLI.
//
// Fields:
//   - PodServerURL: base URL of the pod server, e.g. "http://127.0.0.1:8080".
//   - RequestTimeout: per-request timeout for pod operations.
type Config struct {
	PodServerURL   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.PodServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
