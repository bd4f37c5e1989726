package server

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Santos2175/auth-app/internal/server/config"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.StorageMode = config.StorageModeMemory
	c.MailMode = config.MailModeLog
	c.EndpointAddrHTTP = "127.0.0.1:0"
	return c
}

func TestNewApp_Memory(t *testing.T) {
	var out bytes.Buffer
	app, err := newApp(memoryConfig(), &out)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.db)
	assert.Nil(t, app.redis)
	assert.NotNil(t, app.authService)
	assert.NotNil(t, app.guard)
	assert.Contains(t, out.String(), "in-memory storage")
}

func TestNewApp_UnknownModes(t *testing.T) {
	c := memoryConfig()
	c.StorageMode = "sqlite"
	_, err := newApp(c, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown storage mode")

	c = memoryConfig()
	c.MailMode = "pigeon"
	_, err = newApp(c, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown mail mode")
}

func TestNewApp_SMTPModeDoesNotDial(t *testing.T) {
	c := memoryConfig()
	c.MailMode = config.MailModeSMTP
	c.SMTPHost = "127.0.0.1"
	c.SMTPPort = 1

	app, err := newApp(c, &bytes.Buffer{})
	require.NoError(t, err)
	app.Close()
}

func TestNewApp_Revocations(t *testing.T) {
	mr := miniredis.RunT(t)

	c := memoryConfig()
	c.RevokeOnLogout = true
	c.RedisAddr = mr.Addr()

	app, err := newApp(c, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotNil(t, app.redis)
	app.Close()
	assert.Nil(t, app.redis)

	mr.Close()
	_, err = newApp(c, &bytes.Buffer{})
	assert.ErrorContains(t, err, "redis init error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := newApp(memoryConfig(), &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Nil(t, app.dispatcher)
}
