package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debuggerone/comako/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "comako", cfg.Service.Name)
	assert.Equal(t, "COMAKO", cfg.Service.SenderID)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "edi.inbound", cfg.NATS.InboundSubject)
	assert.Equal(t, "comako-workers", cfg.NATS.QueueGroup)
	assert.Equal(t, -1, cfg.NATS.MaxReconnects)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().NATS, cfg.NATS)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
service:
  name: comako-test
  sender_id: TESTPARTY
  log_level: debug
nats:
  url: nats://bus:4222
  reconnect_wait: 500ms
  inbound_subject: edi.test.inbound
pipeline:
  workers: 2
  queue_size: 32
metrics:
  enabled: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "comako-test", cfg.Service.Name)
	assert.Equal(t, "TESTPARTY", cfg.Service.SenderID)
	assert.Equal(t, "nats://bus:4222", cfg.NATS.URL)
	assert.Equal(t, 500*time.Millisecond, cfg.NATS.ReconnectWait)
	assert.Equal(t, "edi.test.inbound", cfg.NATS.InboundSubject)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.Equal(t, 32, cfg.Pipeline.QueueSize)
	assert.False(t, cfg.Metrics.Enabled)

	// Values the file omits keep their defaults.
	assert.Equal(t, "comako-workers", cfg.NATS.QueueGroup)
	assert.Equal(t, 5*time.Second, cfg.NATS.Timeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "service: [not a mapping")

	_, err := Load(path)

	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COMAKO_NATS_URL", "nats://override:4222")
	t.Setenv("COMAKO_LOG_LEVEL", "warn")
	t.Setenv("COMAKO_SENDER_ID", "ENVPARTY")
	t.Setenv("COMAKO_DEFAULT_RECIPIENT", "ENVRECIPIENT")
	t.Setenv("COMAKO_INBOUND_SUBJECT", "edi.env.inbound")
	t.Setenv("COMAKO_WORKERS", "7")
	t.Setenv("COMAKO_METRICS_PORT", "9191")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "nats://override:4222", cfg.NATS.URL)
	assert.Equal(t, "warn", cfg.Service.LogLevel)
	assert.Equal(t, "ENVPARTY", cfg.Service.SenderID)
	assert.Equal(t, "ENVRECIPIENT", cfg.Service.DefaultRecipient)
	assert.Equal(t, "edi.env.inbound", cfg.NATS.InboundSubject)
	assert.Equal(t, 7, cfg.Pipeline.Workers)
	assert.Equal(t, 9191, cfg.Metrics.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
nats:
  url: nats://file:4222
`)
	t.Setenv("COMAKO_NATS_URL", "nats://env:4222")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nats://env:4222", cfg.NATS.URL)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty service name", func(c *Config) { c.Service.Name = "" }},
		{"empty sender ID", func(c *Config) { c.Service.SenderID = "" }},
		{"unknown log level", func(c *Config) { c.Service.LogLevel = "loud" }},
		{"empty NATS URL", func(c *Config) { c.NATS.URL = "" }},
		{"empty inbound subject", func(c *Config) { c.NATS.InboundSubject = "" }},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -1 }},
		{"negative queue size", func(c *Config) { c.Pipeline.QueueSize = -1 }},
		{"metrics port out of range", func(c *Config) { c.Metrics.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_MetricsPortIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.Enabled = false
	cfg.Metrics.Port = 0

	assert.NoError(t, cfg.Validate())
}
