package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			StaticDir:       "public",
			ShutdownTimeout: 10 * time.Second,
		},
		WebSocket: WebSocketConfig{
			ReadLimit:  64 * 1024,
			PongWait:   60 * time.Second,
			WriteWait:  5 * time.Second,
			SendBuffer: 64,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

func TestValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, validConfig(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cowrie.yaml")
	err := os.WriteFile(path, []byte(`
server:
  addr: 127.0.0.1:4100
  static_dir: web
websocket:
  pong_wait: 30s
  send_buffer: 16
logging:
  level: debug
  format: json
  file: cowrie.log
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:4100", cfg.Server.Addr)
	assert.Equal(t, "web", cfg.Server.StaticDir)
	assert.Equal(t, 30*time.Second, cfg.WebSocket.PongWait)
	assert.Equal(t, 16, cfg.WebSocket.SendBuffer)
	assert.Equal(t, 5*time.Second, cfg.WebSocket.WriteWait, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "cowrie.log", cfg.Logging.File)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("COWRIE_SERVER_ADDR", ":9999")
	t.Setenv("COWRIE_LOGGING_LEVEL", "warn")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("COWRIE_LOGGING_FORMAT", "xml")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLogFileNeedsSize(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.File = "app.log"
	cfg.Logging.MaxSizeMB = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Addr = ""
	cfg.WebSocket.SendBuffer = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.addr")
	assert.Contains(t, err.Error(), "websocket.send_buffer")
}

func TestPingPeriod(t *testing.T) {
	w := validConfig().WebSocket
	assert.Equal(t, 54*time.Second, w.PingPeriod())
}

func TestPropertyPingPeriodBelowPongWait(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		wait := time.Duration(rapid.Int64Range(int64(time.Second), int64(time.Hour)).Draw(t, "pong_wait"))
		w := WebSocketConfig{PongWait: wait}
		if w.PingPeriod() >= wait || w.PingPeriod() <= 0 {
			t.Fatalf("ping period %v not in (0, %v)", w.PingPeriod(), wait)
		}
	})
}

func TestPropertySendBuffer(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-100, 1000).Draw(t, "send_buffer")
		cfg := validConfig()
		cfg.WebSocket.SendBuffer = n
		err := cfg.Validate()
		if (n >= 1) != (err == nil) {
			t.Fatalf("send_buffer=%d validate=%v", n, err)
		}
	})
}
