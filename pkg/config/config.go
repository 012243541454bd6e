// Package config loads client configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ticketflow/notify-go/pkg/connection"
)

// Config is the on-disk client configuration.
type Config struct {
	// Endpoint is the push endpoint URL (ws:// or wss://).
	Endpoint string `yaml:"endpoint"`

	// TokenEnv names the environment variable holding the bearer token.
	TokenEnv string `yaml:"token_env"`

	Reconnect ReconnectConfig `yaml:"reconnect"`
	Log       LogConfig       `yaml:"log"`
}

// ReconnectConfig mirrors connection.Policy in YAML form.
type ReconnectConfig struct {
	Base           time.Duration `yaml:"base"`
	Cap            time.Duration `yaml:"cap"`
	Jitter         float64       `yaml:"jitter"`
	Window         time.Duration `yaml:"window"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// LogConfig configures channel event logging.
type LogConfig struct {
	// File is the CBOR event log path. Empty disables file logging.
	File string `yaml:"file"`

	// Console echoes channel events to stderr via slog at debug level.
	Console bool `yaml:"console"`
}

// Load reads the configuration file, overlaying file values on defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TokenEnv: "TICKETFLOW_TOKEN",
		Reconnect: ReconnectConfig{
			Base:           connection.DefaultBase,
			Cap:            connection.DefaultCap,
			Jitter:         connection.DefaultJitter,
			Window:         connection.DefaultWindow,
			AttemptTimeout: connection.DefaultAttemptTimeout,
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("config: endpoint is required in %s", path)
	}

	return cfg, nil
}

// Policy converts the reconnect section to a connection.Policy.
func (c *Config) Policy() connection.Policy {
	return connection.Policy{
		Base:           c.Reconnect.Base,
		Cap:            c.Reconnect.Cap,
		Jitter:         c.Reconnect.Jitter,
		Window:         c.Reconnect.Window,
		AttemptTimeout: c.Reconnect.AttemptTimeout,
	}
}

// Token resolves the bearer token from the configured environment variable.
func (c *Config) Token() string {
	return os.Getenv(c.TokenEnv)
}
