// ABOUTME: Closed protocol enum for the bridge, with per-protocol defaults.
// ABOUTME: Covers parsing of user-facing names, URL schemes, and NL cues.

package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProtocol indicates the input named no supported protocol.
var ErrUnknownProtocol = errors.New("unknown protocol")

// Protocol identifies one of the supported bridge protocol families.
type Protocol string

const (
	PubSub    Protocol = "pub-sub"
	REST      Protocol = "rest"
	WebSocket Protocol = "websocket"
	SSE       Protocol = "sse"
	GraphQL   Protocol = "graphql"
	RSS       Protocol = "rss"
	Atom      Protocol = "atom"
	FTP       Protocol = "ftp"
)

// Direction describes which way traffic flows through an endpoint.
type Direction string

const (
	In            Direction = "in"
	Out           Direction = "out"
	Bidirectional Direction = "bidirectional"
)

// All returns every supported protocol in display order.
func All() []Protocol {
	return []Protocol{PubSub, REST, WebSocket, SSE, GraphQL, RSS, Atom, FTP}
}

// aliases maps user-facing spellings to canonical protocols.
var aliases = map[string]Protocol{
	"pub-sub":   PubSub,
	"pubsub":    PubSub,
	"mqtt":      PubSub,
	"mqtts":     PubSub,
	"rest":      REST,
	"http":      REST,
	"https":     REST,
	"api":       REST,
	"websocket": WebSocket,
	"ws":        WebSocket,
	"wss":       WebSocket,
	"socket":    WebSocket,
	"sse":       SSE,
	"stream":    SSE,
	"events":    SSE,
	"graphql":   GraphQL,
	"graph":     GraphQL,
	"rss":       RSS,
	"feed":      RSS,
	"atom":      Atom,
	"ftp":       FTP,
}

// Parse resolves a user-facing protocol name to its canonical value.
// Returns ErrUnknownProtocol if the name matches nothing.
func Parse(s string) (Protocol, error) {
	p, ok := aliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
	}
	return p, nil
}

// DefaultTargets returns the targets assigned when an endpoint is added
// without any. Pub/sub bridges subscribe to everything, feeds read the
// feed itself, and everything else starts at the root path.
func (p Protocol) DefaultTargets() []string {
	switch p {
	case PubSub:
		return []string{"#"}
	case RSS, Atom:
		return []string{"feed"}
	case REST, WebSocket, SSE, GraphQL, FTP:
		return []string{"/"}
	}
	return []string{"/"}
}

// ReadOnly reports whether the protocol only ever receives data.
// Read-only endpoints always carry direction "in" regardless of input.
func (p Protocol) ReadOnly() bool {
	switch p {
	case SSE, RSS, Atom, FTP:
		return true
	}
	return false
}

// DefaultDirection returns the direction an endpoint of this protocol
// gets at creation time.
func (p Protocol) DefaultDirection() Direction {
	if p.ReadOnly() {
		return In
	}
	return Bidirectional
}

// Icon returns a one-rune marker used in endpoint listings.
func (p Protocol) Icon() string {
	switch p {
	case PubSub:
		return "📡"
	case REST:
		return "🌐"
	case WebSocket:
		return "🔌"
	case SSE:
		return "📨"
	case GraphQL:
		return "🔍"
	case RSS, Atom:
		return "📰"
	case FTP:
		return "📁"
	}
	return "•"
}

// schemes maps URL schemes to the protocol they imply.
var schemes = map[string]Protocol{
	"mqtt":  PubSub,
	"mqtts": PubSub,
	"ws":    WebSocket,
	"wss":   WebSocket,
	"ftp":   FTP,
}

// FromScheme sniffs a protocol from a raw URL's scheme. HTTP(S) is
// deliberately absent: a bare https URL is ambiguous between rest,
// graphql, and feeds, so it never resolves here.
func FromScheme(rawURL string) (Protocol, bool) {
	idx := strings.Index(rawURL, "://")
	if idx < 0 {
		return "", false
	}
	p, ok := schemes[strings.ToLower(rawURL[:idx])]
	return p, ok
}

// cue pairs a natural-language fragment with the protocol it implies.
// Evaluated in order; first match wins.
type cue struct {
	fragment string
	proto    Protocol
}

var cues = []cue{
	{"connect to", WebSocket},
	{"listen for events from", SSE},
	{"listen to events from", SSE},
	{"query the api", REST},
	{"subscribe to", PubSub},
	{"read the feed", RSS},
}

// FromCue sniffs a protocol from natural-language phrasing.
func FromCue(text string) (Protocol, bool) {
	lower := strings.ToLower(text)
	for _, c := range cues {
		if strings.Contains(lower, c.fragment) {
			return c.proto, true
		}
	}
	return "", false
}

// ValidateURL checks that a URL is plausible for the protocol. Live
// protocols need a scheme; feeds may instead point at a bare .xml path.
func (p Protocol) ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("url is required")
	}
	if strings.Contains(rawURL, "://") {
		return nil
	}
	if (p == RSS || p == Atom) && strings.HasSuffix(strings.ToLower(rawURL), ".xml") {
		return nil
	}
	return fmt.Errorf("url %q needs a scheme (for example mqtt://, wss://, https://)", rawURL)
}
