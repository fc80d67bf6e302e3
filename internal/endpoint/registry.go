// ABOUTME: Thread-safe in-memory registry of configured bridges.
// ABOUTME: Management operations: add, remove, list, status.

package endpoint

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// TrafficLog is the slice of the ledger the registry needs for status
// reporting.
type TrafficLog interface {
	Recent(n int) []ledger.Entry
	Len() int
}

// LiveState reports how many live records a protocol table holds.
type LiveState interface {
	Len() int
}

// statusWindow is how many ledger entries the status report shows.
const statusWindow = 5

// Registry owns every configured endpoint. All mutation happens under
// one lock; list and status take consistent snapshots.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]*Endpoint
	order     []string // insertion order for stable listings

	log     TrafficLog
	conns   LiveState
	streams LiveState
	logger  *slog.Logger
}

// Config wires the registry's collaborators.
type Config struct {
	Log     TrafficLog
	Conns   LiveState
	Streams LiveState
	Logger  *slog.Logger
}

// New creates an empty registry.
func New(cfg Config) *Registry {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		endpoints: make(map[string]*Endpoint),
		log:       cfg.Log,
		conns:     cfg.Conns,
		streams:   cfg.Streams,
		logger:    logger.With("component", "registry"),
	}
}

// newIDLocked generates a unique `{protocol}-{base36 timestamp}` id.
// Must be called with mu held.
func (r *Registry) newIDLocked(p protocol.Protocol) string {
	ms := time.Now().UnixMilli()
	for {
		id := fmt.Sprintf("%s-%s", p, strconv.FormatInt(ms, 36))
		if _, exists := r.endpoints[id]; !exists {
			return id
		}
		ms++
	}
}

// Add validates the URL, applies default targets, and registers a new
// endpoint. The reply carries protocol-specific next steps.
func (r *Registry) Add(p protocol.Protocol, rawURL string, targets []string) *format.Result {
	if err := p.ValidateURL(rawURL); err != nil {
		return format.Errorf(
			"Can't add a %s bridge: %v.\nTry: add bridge %s %s",
			p, err, p, exampleURL(p))
	}

	if len(targets) == 0 {
		targets = p.DefaultTargets()
	}

	r.mu.Lock()
	ep := &Endpoint{
		ID:        r.newIDLocked(p),
		Protocol:  p,
		Name:      displayName(rawURL),
		URL:       rawURL,
		Targets:   targets,
		Direction: p.DefaultDirection(),
		Active:    true,
		CreatedAt: time.Now(),
	}
	r.endpoints[ep.ID] = ep
	r.order = append(r.order, ep.ID)
	r.mu.Unlock()

	r.logger.Info("endpoint added",
		"id", ep.ID,
		"protocol", p,
		"url", rawURL,
		"targets", strings.Join(targets, ","))

	res := format.Successf(
		"Added %s bridge %s\n  url: %s\n  targets: %s\n  direction: %s",
		p, ep.ID, rawURL, strings.Join(targets, ", "), ep.Direction).
		WithTitle("Bridge added").
		WithSummary(fmt.Sprintf("Added a %s bridge to %s", p, ep.Name))
	return format.Suggest(res, p)
}

// Remove deletes an endpoint by exact id. A miss is not a hard failure:
// the reply lists the live endpoints as a disambiguation aid.
func (r *Registry) Remove(id string) *format.Result {
	r.mu.Lock()
	ep, ok := r.endpoints[id]
	if ok {
		delete(r.endpoints, id)
		for i, oid := range r.order {
			if oid == id {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()

	if !ok {
		r.logger.Warn("remove miss", "id", id)
		list := r.renderList()
		if list == "" {
			list = capabilityMenu()
		}
		return format.Partialf(
			"No bridge with id %q. Current bridges:\n%s", id, list).
			WithTitle("Bridge not found")
	}

	r.logger.Info("endpoint removed", "id", id)
	return format.SuggestManagement(
		format.Successf("Removed %s bridge %s (%s)", ep.Protocol, ep.ID, ep.Name).
			WithTitle("Bridge removed"))
}

// List renders every endpoint; an empty registry returns the capability
// menu instead of "empty".
func (r *Registry) List() *format.Result {
	r.mu.RLock()
	empty := len(r.endpoints) == 0
	r.mu.RUnlock()

	if empty {
		return format.SuggestManagement(
			format.Success(capabilityMenu()).WithTitle("No bridges yet"))
	}

	return format.SuggestManagement(
		format.Success(r.renderList()).
			WithTitle("Configured bridges").
			WithSummary(fmt.Sprintf("You have %d bridges configured", r.Count())))
}

// renderList renders the endpoint table under a read lock.
func (r *Registry) renderList() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder
	for _, id := range r.order {
		ep := r.endpoints[id]
		icon := "○"
		if ep.Active {
			icon = "●"
		}
		fmt.Fprintf(&b, "%s %s %s %s\n    targets: %s | %s | %d messages | last: %s\n",
			icon, ep.Protocol.Icon(), ep.ID, ep.URL,
			strings.Join(ep.Targets, ", "), ep.Direction,
			ep.MessageCount, format.RelativeAge(ep.LastActivity))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Status aggregates per-protocol counts, the rolling ledger window, and
// live connection/stream counts.
func (r *Registry) Status() *format.Result {
	r.mu.RLock()
	counts := make(map[protocol.Protocol]int)
	for _, ep := range r.endpoints {
		counts[ep.Protocol]++
	}
	total := len(r.endpoints)
	r.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Bridges: %d\n", total)
	for _, p := range protocol.All() {
		if counts[p] > 0 {
			fmt.Fprintf(&b, "  %s %s: %d\n", p.Icon(), p, counts[p])
		}
	}
	fmt.Fprintf(&b, "Live sockets: %d | live streams: %d", r.conns.Len(), r.streams.Len())

	res := format.Success(b.String()).
		WithTitle("Bridge status").
		WithSummary(fmt.Sprintf("%d bridges configured", total))
	res.AddBlock(r.trafficBlock())
	return format.SuggestManagement(res)
}

// trafficBlock renders the rolling ledger window as its own block so
// voice surfaces speak the count, not the raw entries.
func (r *Registry) trafficBlock() format.Block {
	recent := r.log.Recent(statusWindow)
	if len(recent) == 0 {
		return format.Block{
			Text:    "No traffic recorded yet",
			Summary: "No traffic recorded yet",
		}
	}

	var b strings.Builder
	for i, e := range recent {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  [%s] %s %s %s: %s",
			format.RelativeAge(e.Timestamp), e.Protocol, e.Direction,
			e.Target, format.Snippet(e.Payload, 60))
	}
	return format.Block{
		Title:   fmt.Sprintf("Recent traffic (%d of %d)", len(recent), r.log.Len()),
		Text:    b.String(),
		Summary: fmt.Sprintf("%d recent exchanges", len(recent)),
	}
}

// Track attributes traffic to the owning endpoint (protocol + target
// containment) and updates its activity counters. Returns the endpoint
// id, or the ad-hoc bucket when nothing matches.
func (r *Registry) Track(p protocol.Protocol, target string, _ ledger.Direction) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		ep := r.endpoints[id]
		if ep.Matches(p, target) {
			ep.LastActivity = time.Now()
			ep.MessageCount++
			return ep.ID
		}
	}
	return ledger.AdHocEndpoint
}

// Count returns the number of configured endpoints.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints)
}

// Endpoints returns a snapshot of all endpoints in insertion order.
func (r *Registry) Endpoints() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Endpoint, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.endpoints[id])
	}
	return out
}

// capabilityMenu lists what the bridge can do, shown for empty listings.
func capabilityMenu() string {
	var b strings.Builder
	b.WriteString("No bridges configured yet. Supported protocols:\n")
	for _, p := range protocol.All() {
		fmt.Fprintf(&b, "  %s %s — add bridge %s %s\n", p.Icon(), p, p, exampleURL(p))
	}
	return strings.TrimRight(b.String(), "\n")
}

// exampleURL returns a protocol-appropriate URL for usage examples.
func exampleURL(p protocol.Protocol) string {
	switch p {
	case protocol.PubSub:
		return "mqtt://broker:1883"
	case protocol.WebSocket:
		return "wss://echo.example.com"
	case protocol.SSE:
		return "https://push.example.com/events"
	case protocol.RSS, protocol.Atom:
		return "https://example.com/feed.xml"
	case protocol.GraphQL:
		return "https://api.example.com/graphql"
	case protocol.FTP:
		return "ftp://files.example.com/pub"
	}
	return "https://api.example.com"
}
