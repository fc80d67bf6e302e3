// ABOUTME: Bounded append-only log of all bridge traffic.
// ABOUTME: Capped at 200 entries with FIFO eviction; used by status reporting.

package ledger

import (
	"sync"
	"time"

	"github.com/wronai/broxeen-sub001/internal/protocol"
)

const (
	// MaxEntries is the hard cap on retained history entries.
	MaxEntries = 200

	// MaxPayload is the character count payloads are truncated to
	// before storage.
	MaxPayload = 500
)

// Direction tags an entry as outbound or inbound traffic.
type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
)

// Source records which surface produced the utterance behind an entry.
type Source string

const (
	SourceText  Source = "text"
	SourceVoice Source = "voice"
	SourceAPI   Source = "api"
)

// AdHocEndpoint is the synthetic owner for traffic that matched no
// configured endpoint.
const AdHocEndpoint = "ad-hoc"

// Entry is one recorded exchange.
type Entry struct {
	Timestamp  time.Time
	EndpointID string
	Protocol   protocol.Protocol
	Direction  Direction
	Target     string
	Payload    string
	Source     Source
}

// Ledger is the process-wide traffic log. Safe for concurrent use.
// Entries are appended in completion order, not issue order; it is a
// log, not a delivery queue.
type Ledger struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make([]Entry, 0, MaxEntries)}
}

// Append records an entry, truncating its payload and evicting the
// oldest entry once the cap is reached.
func (l *Ledger) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if runes := []rune(e.Payload); len(runes) > MaxPayload {
		e.Payload = string(runes[:MaxPayload])
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= MaxEntries {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, e)
}

// Recent returns up to n entries, newest last, as a copied snapshot.
func (l *Ledger) Recent(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len returns the number of retained entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
