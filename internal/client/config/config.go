package config

import "time"

// Config holds runtime settings for the authctl client.
//
// Fields:
//   - ServerURL: base URL of the auth API, without the /api/auth suffix.
//   - Timeout: per-request HTTP timeout.
type Config struct {
	ServerURL string        `env:"AUTHCTL_SERVER_URL"`
	Timeout   time.Duration `env:"AUTHCTL_TIMEOUT"`
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.Timeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays JSON,
// environment and flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
