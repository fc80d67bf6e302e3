// ABOUTME: Endpoint model: one configured bridge between a protocol,
// ABOUTME: a URL, and one or more targets. Session-scoped, never persisted.

package endpoint

import (
	"strings"
	"time"

	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// Endpoint is a configured bridge. The ID is immutable after creation;
// only LastActivity, MessageCount, and Active ever change.
type Endpoint struct {
	ID           string
	Protocol     protocol.Protocol
	Name         string
	URL          string
	Targets      []string
	Direction    protocol.Direction
	Active       bool
	CreatedAt    time.Time
	LastActivity time.Time // zero until first traffic
	MessageCount int
}

// Matches reports whether traffic on a target belongs to this endpoint:
// same protocol, and the target is contained by (or wildcard-matches)
// one of the endpoint's targets.
func (e *Endpoint) Matches(p protocol.Protocol, target string) bool {
	if e.Protocol != p {
		return false
	}
	for _, t := range e.Targets {
		if t == target || strings.Contains(target, t) {
			return true
		}
		if p == protocol.PubSub && protocol.MatchTopic(t, target) {
			return true
		}
	}
	return false
}

// displayName derives a short name from a URL when none was given.
func displayName(rawURL string) string {
	name := rawURL
	if idx := strings.Index(name, "://"); idx >= 0 {
		name = name[idx+3:]
	}
	if idx := strings.IndexAny(name, "/?"); idx >= 0 {
		name = name[:idx]
	}
	if name == "" {
		return rawURL
	}
	return name
}
