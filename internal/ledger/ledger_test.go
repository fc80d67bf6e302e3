// ABOUTME: Tests for the bounded traffic ledger.
// ABOUTME: Validates the 200-entry cap, FIFO eviction, payload truncation.

package ledger

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wronai/broxeen-sub001/internal/protocol"
)

func TestLedger_CapAndFIFO(t *testing.T) {
	l := New()

	// Append well past the cap
	for i := 0; i < MaxEntries+50; i++ {
		l.Append(Entry{
			EndpointID: AdHocEndpoint,
			Protocol:   protocol.PubSub,
			Direction:  Sent,
			Target:     fmt.Sprintf("topic/%d", i),
			Payload:    "x",
			Source:     SourceText,
		})
	}

	assert.Equal(t, MaxEntries, l.Len())

	// Oldest 50 must be gone; the newest entry must be last
	all := l.Recent(MaxEntries)
	require.Len(t, all, MaxEntries)
	assert.Equal(t, "topic/50", all[0].Target)
	assert.Equal(t, fmt.Sprintf("topic/%d", MaxEntries+49), all[len(all)-1].Target)
}

func TestLedger_PayloadTruncation(t *testing.T) {
	l := New()
	l.Append(Entry{Payload: strings.Repeat("a", MaxPayload+123)})

	got := l.Recent(1)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Payload, MaxPayload)
}

func TestLedger_PayloadTruncatesOnRunes(t *testing.T) {
	l := New()
	l.Append(Entry{Payload: strings.Repeat("é", MaxPayload+40)})

	got := l.Recent(1)[0].Payload
	// The cap counts characters, and truncation never splits a rune
	assert.Equal(t, MaxPayload, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestLedger_RecentIsSnapshot(t *testing.T) {
	l := New()
	l.Append(Entry{Target: "one"})
	l.Append(Entry{Target: "two"})

	snap := l.Recent(5)
	require.Len(t, snap, 2)

	// Mutating the snapshot must not affect the ledger
	snap[0].Target = "mutated"
	assert.Equal(t, "one", l.Recent(5)[0].Target)
}

func TestLedger_TimestampDefaulted(t *testing.T) {
	l := New()
	l.Append(Entry{Target: "t"})
	assert.False(t, l.Recent(1)[0].Timestamp.IsZero())
}

func TestLedger_ConcurrentAppend(t *testing.T) {
	l := New()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				l.Append(Entry{Target: "t", Payload: "p"})
			}
		}()
	}
	wg.Wait()

	// Never exceeds the cap, regardless of interleaving
	assert.Equal(t, MaxEntries, l.Len())
}
