package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/debuggerone/comako/errors"
)

// Config is the complete service configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	NATS     NATSConfig     `yaml:"nats"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServiceConfig defines the service identity.
type ServiceConfig struct {
	// Name identifies this instance in logs and message sources.
	Name string `yaml:"name"`

	// SenderID is the party ID this service acknowledges as.
	SenderID string `yaml:"sender_id"`

	// DefaultRecipient receives acknowledgments when the original
	// message carries no sender. Optional.
	DefaultRecipient string `yaml:"default_recipient"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// NATSConfig defines the bus connection.
type NATSConfig struct {
	URL           string        `yaml:"url"`
	MaxReconnects int           `yaml:"max_reconnects"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`
	Timeout       time.Duration `yaml:"timeout"`

	// InboundSubject is the subject raw interchanges arrive on.
	InboundSubject string `yaml:"inbound_subject"`

	// QueueGroup shares inbound load between instances.
	QueueGroup string `yaml:"queue_group"`
}

// PipelineConfig defines the processing fan-out.
type PipelineConfig struct {
	// Workers bounds concurrent message processing. Zero means one
	// worker per CPU core.
	Workers int `yaml:"workers"`

	// QueueSize is the submission buffer per worker pool.
	QueueSize int `yaml:"queue_size"`
}

// MetricsConfig defines the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns a configuration that runs against a local NATS
// server.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "comako",
			SenderID: "COMAKO",
			LogLevel: "info",
		},
		NATS: NATSConfig{
			URL:            "nats://localhost:4222",
			MaxReconnects:  -1,
			ReconnectWait:  2 * time.Second,
			Timeout:        5 * time.Second,
			InboundSubject: "edi.inbound",
			QueueGroup:     "comako-workers",
		},
		Pipeline: PipelineConfig{
			Workers:   runtime.NumCPU(),
			QueueSize: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. An empty path skips the file and uses defaults
// plus environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapFatal(err, "Config", "Load", "read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapInvalid(err, "Config", "Load", "parse config file")
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays COMAKO_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("COMAKO_NATS_URL"); v != "" {
		c.NATS.URL = v
	}
	if v := os.Getenv("COMAKO_LOG_LEVEL"); v != "" {
		c.Service.LogLevel = v
	}
	if v := os.Getenv("COMAKO_SENDER_ID"); v != "" {
		c.Service.SenderID = v
	}
	if v := os.Getenv("COMAKO_DEFAULT_RECIPIENT"); v != "" {
		c.Service.DefaultRecipient = v
	}
	if v := os.Getenv("COMAKO_INBOUND_SUBJECT"); v != "" {
		c.NATS.InboundSubject = v
	}
	if v := os.Getenv("COMAKO_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Pipeline.Workers = n
		}
	}
	if v := os.Getenv("COMAKO_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Metrics.Port = n
		}
	}
}

// Validate checks the configuration is runnable.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Validate", "check service name")
	}
	if c.Service.SenderID == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Validate", "check sender ID")
	}
	switch c.Service.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(
			fmt.Errorf("unknown log level %q", c.Service.LogLevel),
			"Config", "Validate", "check log level")
	}
	if c.NATS.URL == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Validate", "check NATS URL")
	}
	if c.NATS.InboundSubject == "" {
		return errors.WrapFatal(errors.ErrMissingConfig, "Config", "Validate", "check inbound subject")
	}
	if c.Pipeline.Workers < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("negative worker count %d", c.Pipeline.Workers),
			"Config", "Validate", "check worker count")
	}
	if c.Pipeline.QueueSize < 0 {
		return errors.WrapInvalid(
			fmt.Errorf("negative queue size %d", c.Pipeline.QueueSize),
			"Config", "Validate", "check queue size")
	}
	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return errors.WrapInvalid(
			fmt.Errorf("metrics port %d out of range", c.Metrics.Port),
			"Config", "Validate", "check metrics port")
	}
	return nil
}
