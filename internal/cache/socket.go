// ABOUTME: Per-URL socket connection records with bounded traffic buffers.
// ABOUTME: Records survive the underlying socket; they are session state.

package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wronai/broxeen-sub001/internal/ledger"
)

// Frame is one message exchanged on a socket connection.
type Frame struct {
	Timestamp time.Time
	Data      string
	Direction ledger.Direction
}

// Conn is the session record for one socket URL.
type Conn struct {
	ID           string
	URL          string
	ConnectedAt  time.Time
	LastMessage  time.Time
	MessageCount int

	frames ring[Frame]
}

// Frames returns a copy of the buffered traffic, oldest first.
func (c *Conn) Frames() []Frame {
	return c.frames.snapshot()
}

// ConnTable tracks socket connection records keyed by URL. Safe for
// concurrent use.
type ConnTable struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnTable creates an empty connection table.
func NewConnTable() *ConnTable {
	return &ConnTable{conns: make(map[string]*Conn)}
}

// Get returns the record for a URL, if one exists.
func (t *ConnTable) Get(url string) (*Conn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.conns[url]
	return c, ok
}

// Ensure returns the record for a URL, creating it on first use.
// The second return reports whether the record already existed.
func (t *ConnTable) Ensure(url string) (*Conn, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.conns[url]; ok {
		return c, true
	}
	c := &Conn{
		ID:          uuid.New().String(),
		URL:         url,
		ConnectedAt: time.Now(),
	}
	t.conns[url] = c
	return c, false
}

// Record appends a frame to the URL's buffer, creating the record if
// needed, and bumps the monotonic message counter.
func (t *ConnTable) Record(url, data string, dir ledger.Direction) *Conn {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.conns[url]
	if !ok {
		c = &Conn{
			ID:          uuid.New().String(),
			URL:         url,
			ConnectedAt: time.Now(),
		}
		t.conns[url] = c
	}
	c.frames.push(Frame{Timestamp: time.Now(), Data: data, Direction: dir})
	c.LastMessage = time.Now()
	c.MessageCount++
	return c
}

// Len returns the number of live connection records.
func (t *ConnTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.conns)
}
