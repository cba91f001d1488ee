package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Applies defaults", func(t *testing.T) {
		// Given: a config file with only the ports
		path := writeConfig(t, "http-port: \"9191\"\nsocket-port: \"8181\"\n")

		// When: it is loaded
		conf, err := Load(path)

		// Then: everything else falls back to defaults
		require.NoError(t, err)
		assert.Equal(t, "9191", conf.HTTPPort)
		assert.Equal(t, "8181", conf.SocketPort)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, []int{5, 4, 3, 3, 2}, conf.Game.Fleet)
		assert.Equal(t, 24*time.Hour, conf.Redis.ArchiveTTL)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, 54*time.Second, conf.WebSocket.PingPeriod)
		assert.Empty(t, conf.NATS.URL)
	})

	t.Run("Reads nested sections", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
redis:
  host: redis
  archive-ttl: 1h
nats:
  url: nats://nats:4222
game:
  fleet: [3, 2]
  max-players: 100
websocket:
  pong-wait: 30s
  ping-period: 20s
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Redis.ArchiveTTL)
		assert.Equal(t, "nats://nats:4222", conf.NATS.URL)
		assert.Equal(t, []int{3, 2}, conf.Game.Fleet)
		assert.Equal(t, 100, conf.Game.MaxPlayers)
		assert.Equal(t, 20*time.Second, conf.WebSocket.PingPeriod)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "socket-port: \"8181\"\n")
		t.Setenv("SOCKET_PORT", "7070")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.SocketPort)
	})

	t.Run("Rejects a fleet that cannot be placed", func(t *testing.T) {
		path := writeConfig(t, "game:\n  fleet: [11]\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Rejects a ping period not shorter than the pong wait", func(t *testing.T) {
		path := writeConfig(t, "websocket:\n  pong-wait: 10s\n  ping-period: 10s\n")

		_, err := Load(path)

		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "absent.yml")) })
	})
}
