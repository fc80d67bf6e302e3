// ABOUTME: Per-URL push-stream records with bounded event buffers.
// ABOUTME: One-way state: streams only ever accumulate received events.

package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one server-push event received on a stream.
type Event struct {
	Timestamp time.Time
	Type      string
	Data      string
}

// Stream is the session record for one push-stream URL.
type Stream struct {
	ID         string
	URL        string
	StartedAt  time.Time
	EventCount int

	events ring[Event]
}

// Events returns a copy of the buffered events, oldest first.
func (s *Stream) Events() []Event {
	return s.events.snapshot()
}

// StreamTable tracks push-stream records keyed by URL. Safe for
// concurrent use.
type StreamTable struct {
	mu      sync.RWMutex
	streams map[string]*Stream
}

// NewStreamTable creates an empty stream table.
func NewStreamTable() *StreamTable {
	return &StreamTable{streams: make(map[string]*Stream)}
}

// Get returns the record for a URL, if one exists.
func (t *StreamTable) Get(url string) (*Stream, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.streams[url]
	return s, ok
}

// Ensure returns the record for a URL, creating it on first use.
// The second return reports whether the record already existed.
func (t *StreamTable) Ensure(url string) (*Stream, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.streams[url]; ok {
		return s, true
	}
	s := &Stream{
		ID:        uuid.New().String(),
		URL:       url,
		StartedAt: time.Now(),
	}
	t.streams[url] = s
	return s, false
}

// Record appends an event to the URL's buffer, creating the record if
// needed, and bumps the monotonic event counter.
func (t *StreamTable) Record(url, eventType, data string) *Stream {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.streams[url]
	if !ok {
		s = &Stream{
			ID:        uuid.New().String(),
			URL:       url,
			StartedAt: time.Now(),
		}
		t.streams[url] = s
	}
	s.events.push(Event{Timestamp: time.Now(), Type: eventType, Data: data})
	s.EventCount++
	return s
}

// Len returns the number of live stream records.
func (t *StreamTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.streams)
}
