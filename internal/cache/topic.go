// ABOUTME: Last-value cache for pub/sub topics, one entry per concrete topic.
// ABOUTME: Supports wildcard lookup with MQTT # and + filter semantics.

package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// TopicValue is the retained last message on one concrete topic.
type TopicValue struct {
	Topic     string
	Payload   string
	Timestamp time.Time
}

// TopicCache retains the last value seen on each topic. Safe for
// concurrent use; entries are overwritten on update, never appended.
type TopicCache struct {
	mu     sync.RWMutex
	values map[string]TopicValue
}

// NewTopicCache creates an empty last-value cache.
func NewTopicCache() *TopicCache {
	return &TopicCache{values: make(map[string]TopicValue)}
}

// Set stores the last value for a concrete topic, overwriting any
// previous entry.
func (c *TopicCache) Set(topic, payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[topic] = TopicValue{Topic: topic, Payload: payload, Timestamp: time.Now()}
}

// Get returns the cached value for an exact topic.
func (c *TopicCache) Get(topic string) (TopicValue, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[topic]
	return v, ok
}

// Match returns all cached values whose topic matches the filter,
// sorted by topic for stable output.
func (c *TopicCache) Match(filter string) []TopicValue {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []TopicValue
	for topic, v := range c.values {
		if protocol.MatchTopic(filter, topic) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

// Topics returns the sorted list of cached topic names, used as a
// recovery hint on cache misses.
func (c *TopicCache) Topics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.values))
	for topic := range c.values {
		out = append(out, topic)
	}
	sort.Strings(out)
	return out
}
