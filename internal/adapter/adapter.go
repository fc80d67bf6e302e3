// ABOUTME: Shared adapter plumbing: dependency wiring, protocol lookup,
// ABOUTME: ledger recording, and the panic guard at the adapter boundary.

package adapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/wronai/broxeen-sub001/internal/cache"
	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/host"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

const (
	// DefaultFetchTimeout bounds request/response network calls.
	DefaultFetchTimeout = 10 * time.Second
	// DefaultConnectTimeout bounds connection establishment.
	DefaultConnectTimeout = 5 * time.Second
)

// Tracker attributes traffic to the owning endpoint.
type Tracker interface {
	Track(p protocol.Protocol, target string, dir ledger.Direction) string
}

// Adapter is one protocol family's connect/send/receive semantics.
// Implementations never return a Go error or let a panic escape; every
// outcome is a Result.
type Adapter interface {
	Protocol() protocol.Protocol
	Read(ctx context.Context, target string) *format.Result
	Send(ctx context.Context, target, payload string) *format.Result
}

// Deps carries the shared state and collaborators every adapter uses.
type Deps struct {
	Ledger  *ledger.Ledger
	Tracker Tracker

	Host   host.Caller
	Pages  host.PageFetcher
	Feeds  host.FeedParser
	PubSub host.PubSubClient // optional

	Topics  *cache.TopicCache
	Conns   *cache.ConnTable
	Streams *cache.StreamTable

	HTTPClient     *http.Client
	Logger         *slog.Logger
	FetchTimeout   time.Duration
	ConnectTimeout time.Duration
}

// fill replaces nil collaborators with working defaults so a Deps zero
// value short of Ledger/Tracker still behaves.
func (d *Deps) fill() {
	if d.Host == nil {
		d.Host = host.Unavailable{}
	}
	if d.FetchTimeout == 0 {
		d.FetchTimeout = DefaultFetchTimeout
	}
	if d.ConnectTimeout == 0 {
		d.ConnectTimeout = DefaultConnectTimeout
	}
	if d.Pages == nil {
		d.Pages = host.NewHTTPPageFetcher(d.FetchTimeout)
	}
	if d.Feeds == nil {
		d.Feeds = host.GofeedParser{}
	}
	if d.Topics == nil {
		d.Topics = cache.NewTopicCache()
	}
	if d.Conns == nil {
		d.Conns = cache.NewConnTable()
	}
	if d.Streams == nil {
		d.Streams = cache.NewStreamTable()
	}
	if d.HTTPClient == nil {
		d.HTTPClient = &http.Client{Timeout: d.FetchTimeout}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
}

// record appends a ledger entry for one exchange and updates the owning
// endpoint's activity.
func (d *Deps) record(ctx context.Context, p protocol.Protocol, dir ledger.Direction, target, payload string) {
	id := ledger.AdHocEndpoint
	if d.Tracker != nil {
		id = d.Tracker.Track(p, target, dir)
	}
	d.Ledger.Append(ledger.Entry{
		EndpointID: id,
		Protocol:   p,
		Direction:  dir,
		Target:     target,
		Payload:    payload,
		Source:     ledger.SourceFromContext(ctx),
	})
}

// Set owns one adapter per protocol family and guards every call.
type Set struct {
	deps    *Deps
	pubsub  *pubsubAdapter
	rest    *restAdapter
	socket  *socketAdapter
	stream  *streamAdapter
	graphql *graphqlAdapter
	rss     *feedAdapter
	atom    *feedAdapter
	ftp     *ftpAdapter
}

// NewSet wires one adapter per protocol family over shared deps.
func NewSet(deps Deps) *Set {
	deps.fill()
	d := &deps
	return &Set{
		deps:    d,
		pubsub:  &pubsubAdapter{deps: d},
		rest:    &restAdapter{deps: d},
		socket:  newSocketAdapter(d),
		stream:  &streamAdapter{deps: d},
		graphql: &graphqlAdapter{deps: d},
		rss:     &feedAdapter{deps: d, proto: protocol.RSS},
		atom:    &feedAdapter{deps: d, proto: protocol.Atom},
		ftp:     &ftpAdapter{deps: d},
	}
}

// For returns the adapter serving a protocol. The switch is exhaustive
// over the protocol enum; a new protocol fails here at review time, not
// at runtime.
func (s *Set) For(p protocol.Protocol) (Adapter, bool) {
	switch p {
	case protocol.PubSub:
		return s.pubsub, true
	case protocol.REST:
		return s.rest, true
	case protocol.WebSocket:
		return s.socket, true
	case protocol.SSE:
		return s.stream, true
	case protocol.GraphQL:
		return s.graphql, true
	case protocol.RSS:
		return s.rss, true
	case protocol.Atom:
		return s.atom, true
	case protocol.FTP:
		return s.ftp, true
	}
	return nil, false
}

// Read dispatches a read to the protocol's adapter with an overall
// timeout, a panic guard, duration metadata, and suggested actions.
func (s *Set) Read(ctx context.Context, p protocol.Protocol, target string) *format.Result {
	a, ok := s.For(p)
	if !ok {
		return format.Errorf("No adapter for protocol %q. Try: list bridges", p)
	}
	return s.run(ctx, p, func(ctx context.Context) *format.Result {
		return a.Read(ctx, target)
	})
}

// Send dispatches a send to the protocol's adapter.
func (s *Set) Send(ctx context.Context, p protocol.Protocol, target, payload string) *format.Result {
	a, ok := s.For(p)
	if !ok {
		return format.Errorf("No adapter for protocol %q. Try: list bridges", p)
	}
	return s.run(ctx, p, func(ctx context.Context) *format.Result {
		return a.Send(ctx, target, payload)
	})
}

// run applies the shared call discipline around one adapter operation.
func (s *Set) run(ctx context.Context, p protocol.Protocol, op func(ctx context.Context) *format.Result) (res *format.Result) {
	ctx, cancel := context.WithTimeout(ctx, s.deps.FetchTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.deps.Logger.Error("adapter panic recovered", "protocol", p, "panic", r)
			res = format.Errorf("The %s operation failed unexpectedly. Try: bridge status", p)
		}
		res.Meta.Duration = time.Since(start)
		format.Suggest(res, p)
	}()

	return op(ctx)
}

// Close releases any live connections held by adapters.
func (s *Set) Close() {
	s.socket.close()
	if c, ok := s.deps.PubSub.(interface{ Close() }); ok {
		c.Close()
	}
}

// readOnly builds the standard reply for a send on a read-only protocol.
func readOnly(p protocol.Protocol) *format.Result {
	return format.Errorf("%s bridges are read-only. Try: bridge %s <url>", p, p)
}
