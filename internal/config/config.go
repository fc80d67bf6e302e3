// ABOUTME: Configuration loading and parsing for the broxeen bridge
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete bridge configuration
type Config struct {
	Network NetworkConfig `yaml:"network"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Logging LoggingConfig `yaml:"logging"`
}

// NetworkConfig bounds every network operation the adapters perform
type NetworkConfig struct {
	FetchTimeout   time.Duration `yaml:"-"`
	ConnectTimeout time.Duration `yaml:"-"`

	// Raw string values for YAML unmarshaling
	FetchTimeoutRaw   string `yaml:"fetch_timeout"`
	ConnectTimeoutRaw string `yaml:"connect_timeout"`
}

// MQTTConfig wires the optional injected pub/sub client
type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			FetchTimeout:   10 * time.Second,
			ConnectTimeout: 5 * time.Second,
		},
		MQTT: MQTTConfig{
			ClientID: "broxeen-bridge",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// envVarRegex matches ${VAR} style references
var envVarRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} references with environment values
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarRegex.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Load reads a config file, expands environment references, and parses
// durations. A missing file yields the defaults, not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(expandEnvVars(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDurations converts the raw duration strings
func (c *Config) parseDurations() error {
	if c.Network.FetchTimeoutRaw != "" {
		d, err := time.ParseDuration(c.Network.FetchTimeoutRaw)
		if err != nil {
			return fmt.Errorf("invalid fetch_timeout %q: %w", c.Network.FetchTimeoutRaw, err)
		}
		c.Network.FetchTimeout = d
	}
	if c.Network.ConnectTimeoutRaw != "" {
		d, err := time.ParseDuration(c.Network.ConnectTimeoutRaw)
		if err != nil {
			return fmt.Errorf("invalid connect_timeout %q: %w", c.Network.ConnectTimeoutRaw, err)
		}
		c.Network.ConnectTimeout = d
	}
	return nil
}
