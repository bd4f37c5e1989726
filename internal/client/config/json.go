package config

import (
	"encoding/json"
	"os"

	"github.com/Santos2175/auth-app/internal/flagx"
	"github.com/Santos2175/auth-app/internal/timex"
)

// JsonConfig is the on-disk shape of the client configuration. Timeout
// accepts "5s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL string          `json:"server_url"`
	Timeout   *timex.Duration `json:"timeout"`
}

// parseJson overlays Config with values from the file named by -c / -config.
// Absent keys keep their current value. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.Timeout != nil {
		cfg.Timeout = jc.Timeout.Duration
	}
}
