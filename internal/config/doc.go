// Package config handles configuration loading for the broxeen bridge.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// A missing file falls back to defaults; a malformed one is an error.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	mqtt:
//	  broker: "${BROXEEN_MQTT_BROKER}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	network:
//	  fetch_timeout: "10s"
//	  connect_timeout: "5s"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Network timeouts bound every adapter operation:
//
//	network:
//	  fetch_timeout: "10s"    # request/response calls
//	  connect_timeout: "5s"   # connection establishment
//
// The optional injected MQTT client:
//
//	mqtt:
//	  enabled: false
//	  broker: "mqtt://broker:1883"
//	  client_id: "broxeen-bridge"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
