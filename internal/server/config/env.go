package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays environment variables named by the `env` struct tags.
// Unset variables keep the value already in config.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
