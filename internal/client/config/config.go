package config

import "time"

// Config holds runtime settings for the ProtoDrive CLI.
//
// Fields:
//   - ServerBaseURL: absolute URL of the storage service, trailing slash optional.
//   - RequestTimeout: upper bound for one request, body included.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3001/"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
