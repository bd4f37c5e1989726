package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:5000", c.ServerURL)
	assert.Equal(t, 10*time.Second, c.Timeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("CONFIG", "")

	path := writeTempJSON(t, "", "", map[string]any{
		"server_url": "http://from-json",
		"timeout":    "2s",
	})

	t.Setenv("AUTHCTL_SERVER_URL", "http://from-env")
	t.Setenv("AUTHCTL_TIMEOUT", "")
	os.Args = []string{"authctl", "-c", path, "-t", "7"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)

	want := &Config{ServerURL: "http://from-env", Timeout: 7 * time.Second}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"authctl", "-a", "http://api:1", "-x", "ignored"}
	cfg := &Config{Timeout: 4 * time.Second}
	parseFlags(cfg)
	assert.Equal(t, "http://api:1", cfg.ServerURL)
	assert.Equal(t, 4*time.Second, cfg.Timeout)

	os.Args = []string{"authctl", "-t", "soon"}
	assert.Panics(t, func() { parseFlags(&Config{}) })
}

func TestParseEnv(t *testing.T) {
	t.Setenv("AUTHCTL_TIMEOUT", "1m")
	cfg := &Config{ServerURL: "http://keep"}
	parseEnv(cfg)
	assert.Equal(t, "http://keep", cfg.ServerURL)
	assert.Equal(t, time.Minute, cfg.Timeout)

	t.Setenv("AUTHCTL_TIMEOUT", "later")
	assert.Panics(t, func() { parseEnv(&Config{}) })
}
