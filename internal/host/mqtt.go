// ABOUTME: Paho-backed PubSubClient that mirrors broker traffic locally.
// ABOUTME: Subscribes to # and keeps its own last-value map per topic.

package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTClient is a PubSubClient backed by a live MQTT broker connection.
// It subscribes to the broker's full topic space and retains the last
// payload per topic, so LastValue answers without a round trip.
type MQTTClient struct {
	client mqtt.Client
	logger *slog.Logger

	mu   sync.RWMutex
	last map[string]string
}

// DialMQTT connects to a broker and starts mirroring last values.
// brokerURL uses mqtt:// or tcp:// form; timeout bounds both the
// connect and the initial subscribe.
func DialMQTT(brokerURL, clientID string, timeout time.Duration, logger *slog.Logger) (*MQTTClient, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &MQTTClient{
		logger: logger.With("component", "mqtt-client"),
		last:   make(map[string]string),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(timeout).
		SetAutoReconnect(true)

	c.client = mqtt.NewClient(opts)

	tok := c.client.Connect()
	if !tok.WaitTimeout(timeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out after %s", brokerURL, timeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}

	sub := c.client.Subscribe("#", 0, c.onMessage)
	if !sub.WaitTimeout(timeout) || sub.Error() != nil {
		c.client.Disconnect(0)
		return nil, fmt.Errorf("mqtt subscribe on %s failed", brokerURL)
	}

	c.logger.Info("mqtt client connected", "broker", brokerURL, "client_id", clientID)
	return c, nil
}

func (c *MQTTClient) onMessage(_ mqtt.Client, m mqtt.Message) {
	c.mu.Lock()
	c.last[m.Topic()] = string(m.Payload())
	c.mu.Unlock()
}

// Publish sends a retained message so late readers still see the value.
func (c *MQTTClient) Publish(ctx context.Context, topic, payload string) error {
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	tok := c.client.Publish(topic, 0, true, payload)
	if !tok.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt publish to %s timed out", topic)
	}
	return tok.Error()
}

// LastValue returns the mirrored last payload for an exact topic.
func (c *MQTTClient) LastValue(topic string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.last[topic]
	return v, ok
}

// Close disconnects from the broker.
func (c *MQTTClient) Close() {
	c.client.Disconnect(250)
}
