// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, and duration parsing

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bridge.yaml")

	configContent := `
network:
  fetch_timeout: "8s"
  connect_timeout: "3s"

mqtt:
  enabled: true
  broker: "mqtt://broker:1883"
  client_id: "test-bridge"

logging:
  level: "debug"
  format: "json"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Network.FetchTimeout != 8*time.Second {
		t.Errorf("fetch_timeout = %v, want 8s", cfg.Network.FetchTimeout)
	}
	if cfg.Network.ConnectTimeout != 3*time.Second {
		t.Errorf("connect_timeout = %v, want 3s", cfg.Network.ConnectTimeout)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker != "mqtt://broker:1883" {
		t.Errorf("mqtt config = %+v", cfg.MQTT)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging config = %+v", cfg.Logging)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Network.FetchTimeout != 10*time.Second {
		t.Errorf("default fetch_timeout = %v, want 10s", cfg.Network.FetchTimeout)
	}
	if cfg.Network.ConnectTimeout != 5*time.Second {
		t.Errorf("default connect_timeout = %v, want 5s", cfg.Network.ConnectTimeout)
	}
	if cfg.MQTT.Enabled {
		t.Error("mqtt should be disabled by default")
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_BROKER_URL", "mqtt://env-broker:1883")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bridge.yaml")
	configContent := `
mqtt:
  enabled: true
  broker: "${TEST_BROKER_URL}"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MQTT.Broker != "mqtt://env-broker:1883" {
		t.Errorf("broker = %q, want expanded env value", cfg.MQTT.Broker)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bridge.yaml")
	if err := os.WriteFile(configPath, []byte("network:\n  fetch_timeout: \"soon\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "fetch_timeout") {
		t.Fatalf("expected fetch_timeout error, got %v", err)
	}
}
