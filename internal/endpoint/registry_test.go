// ABOUTME: Tests for the endpoint registry management operations.
// ABOUTME: Validates id uniqueness, defaults, remove-miss behavior, status.

package endpoint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wronai/broxeen-sub001/internal/cache"
	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

func newTestRegistry() (*Registry, *ledger.Ledger) {
	log := ledger.New()
	return New(Config{
		Log:     log,
		Conns:   cache.NewConnTable(),
		Streams: cache.NewStreamTable(),
	}), log
}

func TestAdd_UniqueIDsAndDefaults(t *testing.T) {
	r, _ := newTestRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		res := r.Add(protocol.PubSub, fmt.Sprintf("mqtt://broker-%d:1883", i), nil)
		require.Equal(t, format.StatusSuccess, res.Status)
	}

	for _, ep := range r.Endpoints() {
		assert.False(t, seen[ep.ID], "duplicate id %s", ep.ID)
		seen[ep.ID] = true
		// Omitted targets resolve to the pub/sub default
		assert.Equal(t, []string{"#"}, ep.Targets)
		assert.Equal(t, protocol.Bidirectional, ep.Direction)
		assert.True(t, ep.Active)
		assert.True(t, ep.LastActivity.IsZero())
	}
	assert.Equal(t, 20, r.Count())
}

func TestAdd_FeedDefaultsAndXMLURL(t *testing.T) {
	r, _ := newTestRegistry()

	// .xml suffix is acceptable for feeds without a scheme
	res := r.Add(protocol.RSS, "feeds/news.xml", nil)
	require.Equal(t, format.StatusSuccess, res.Status)

	ep := r.Endpoints()[0]
	assert.Equal(t, []string{"feed"}, ep.Targets)
	assert.Equal(t, protocol.In, ep.Direction)
}

func TestAdd_MissingURL(t *testing.T) {
	r, _ := newTestRegistry()

	res := r.Add(protocol.REST, "", nil)
	assert.Equal(t, format.StatusError, res.Status)
	// The failure embeds a corrective usage example
	assert.Contains(t, res.Text(), "add bridge rest")
	assert.Equal(t, 0, r.Count())
}

func TestRemove_UnknownIDReturnsList(t *testing.T) {
	r, _ := newTestRegistry()
	r.Add(protocol.WebSocket, "wss://echo.example.com", nil)

	res := r.Remove("websocket-nope")
	// Not a hard failure: partial, with the live list as disambiguation
	assert.Equal(t, format.StatusPartial, res.Status)
	assert.Contains(t, res.Text(), "wss://echo.example.com")
	assert.Equal(t, 1, r.Count())
}

func TestRemove_MissOnEmptyRegistryShowsMenu(t *testing.T) {
	r, _ := newTestRegistry()

	res := r.Remove("rest-nope")
	assert.Equal(t, format.StatusPartial, res.Status)
	// With nothing to list, the disambiguation aid is the capability menu
	text := res.Text()
	for _, p := range protocol.All() {
		assert.Contains(t, text, string(p))
	}
}

func TestRemove_ExactMatch(t *testing.T) {
	r, _ := newTestRegistry()
	r.Add(protocol.WebSocket, "wss://echo.example.com", nil)
	id := r.Endpoints()[0].ID

	res := r.Remove(id)
	assert.Equal(t, format.StatusSuccess, res.Status)
	assert.Equal(t, 0, r.Count())
}

func TestList_EmptyIsCapabilityMenu(t *testing.T) {
	r, _ := newTestRegistry()

	res := r.List()
	assert.Equal(t, format.StatusSuccess, res.Status)
	text := res.Text()
	// The menu names every protocol rather than saying "empty"
	for _, p := range protocol.All() {
		assert.Contains(t, text, string(p))
	}
}

func TestListAndStatus_Idempotent(t *testing.T) {
	r, log := newTestRegistry()
	r.Add(protocol.PubSub, "mqtt://broker:1883", []string{"home/#"})
	log.Append(ledger.Entry{Protocol: protocol.PubSub, Direction: ledger.Sent, Target: "home/x", Payload: "1"})

	assert.Equal(t, r.List().Text(), r.List().Text())
	assert.Equal(t, r.Status().Text(), r.Status().Text())
}

func TestStatus_RollingWindow(t *testing.T) {
	r, log := newTestRegistry()
	for i := 0; i < 9; i++ {
		log.Append(ledger.Entry{
			Protocol:  protocol.REST,
			Direction: ledger.Received,
			Target:    fmt.Sprintf("/r/%d", i),
			Payload:   "{}",
		})
	}

	text := r.Status().Text()
	// Only the last 5 entries appear
	assert.NotContains(t, text, "/r/3")
	assert.Contains(t, text, "/r/4")
	assert.Contains(t, text, "/r/8")
}

func TestStatus_TrafficIsOwnBlock(t *testing.T) {
	r, log := newTestRegistry()
	r.Add(protocol.PubSub, "mqtt://broker:1883", nil)
	log.Append(ledger.Entry{Protocol: protocol.PubSub, Direction: ledger.Sent, Target: "home/x", Payload: "1"})

	res := r.Status()
	require.Len(t, res.Blocks, 2)
	assert.Contains(t, res.Blocks[1].Title, "Recent traffic")
	assert.Contains(t, res.Blocks[1].Text, "home/x")
	// The spoken form carries counts, never the raw entries
	assert.Contains(t, res.Voice(), "1 recent exchanges")
	assert.NotContains(t, res.Voice(), "home/x")
}

func TestTrack_ContainmentAndAdHoc(t *testing.T) {
	r, _ := newTestRegistry()
	r.Add(protocol.PubSub, "mqtt://broker:1883", []string{"home/sensors/#"})
	id := r.Endpoints()[0].ID

	// Wildcard containment attributes to the endpoint
	got := r.Track(protocol.PubSub, "home/sensors/kitchen", ledger.Received)
	assert.Equal(t, id, got)

	ep := r.Endpoints()[0]
	assert.Equal(t, 1, ep.MessageCount)
	assert.False(t, ep.LastActivity.IsZero())

	// Unrelated traffic lands in the ad-hoc bucket
	got = r.Track(protocol.REST, "https://api.example.com", ledger.Sent)
	assert.Equal(t, ledger.AdHocEndpoint, got)
}
