// ABOUTME: Gateway service: wires router, registry, adapters, and caches.
// ABOUTME: One utterance in, one voice-ready reply out.

package gateway

import (
	"context"
	"log/slog"

	"github.com/wronai/broxeen-sub001/internal/adapter"
	"github.com/wronai/broxeen-sub001/internal/cache"
	"github.com/wronai/broxeen-sub001/internal/config"
	"github.com/wronai/broxeen-sub001/internal/endpoint"
	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/host"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
	"github.com/wronai/broxeen-sub001/internal/router"
)

// Options carries the injectable collaborators. Zero values select
// working defaults (no host, direct networking, gofeed parsing).
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	Host   host.Caller
	Pages  host.PageFetcher
	Feeds  host.FeedParser
	PubSub host.PubSubClient
}

// Gateway is the multi-protocol bridge service. It owns all shared
// state: the endpoint registry, the three protocol caches, and the
// traffic ledger.
type Gateway struct {
	registry *endpoint.Registry
	adapters *adapter.Set
	router   *router.Router
	ledger   *ledger.Ledger
	logger   *slog.Logger
}

// New assembles a gateway.
func New(opts Options) *Gateway {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	log := ledger.New()
	topics := cache.NewTopicCache()
	conns := cache.NewConnTable()
	streams := cache.NewStreamTable()

	registry := endpoint.New(endpoint.Config{
		Log:     log,
		Conns:   conns,
		Streams: streams,
		Logger:  logger,
	})

	adapters := adapter.NewSet(adapter.Deps{
		Ledger:         log,
		Tracker:        registry,
		Host:           opts.Host,
		Pages:          opts.Pages,
		Feeds:          opts.Feeds,
		PubSub:         opts.PubSub,
		Topics:         topics,
		Conns:          conns,
		Streams:        streams,
		Logger:         logger,
		FetchTimeout:   cfg.Network.FetchTimeout,
		ConnectTimeout: cfg.Network.ConnectTimeout,
	})

	g := &Gateway{
		registry: registry,
		adapters: adapters,
		ledger:   log,
		logger:   logger.With("component", "gateway"),
	}
	g.router = router.New(g, logger)
	return g
}

// CanHandle reports whether an utterance belongs to the bridge at all.
// Cheap and side-effect-free, for the upstream intent classifier.
func (g *Gateway) CanHandle(text string) bool {
	return g.router.CanHandle(text)
}

// Handle resolves one utterance end to end.
func (g *Gateway) Handle(ctx context.Context, text string, source ledger.Source) *format.Result {
	ctx = ledger.WithSource(ctx, source)
	res := g.router.Handle(ctx, text)
	g.logger.Info("utterance handled",
		"status", res.Status,
		"duration", res.Meta.Duration,
		"source", source)
	return res
}

// Close releases live connections.
func (g *Gateway) Close() {
	g.adapters.Close()
}

// Endpoints exposes a snapshot of the registry, for surfaces that list
// bridges outside the utterance flow.
func (g *Gateway) Endpoints() []endpoint.Endpoint {
	return g.registry.Endpoints()
}

// AddBridge implements router.Dispatcher.
func (g *Gateway) AddBridge(_ context.Context, p protocol.Protocol, url string, targets []string) *format.Result {
	return g.registry.Add(p, url, targets)
}

// RemoveBridge implements router.Dispatcher.
func (g *Gateway) RemoveBridge(_ context.Context, id string) *format.Result {
	return g.registry.Remove(id)
}

// ListBridges implements router.Dispatcher.
func (g *Gateway) ListBridges(context.Context) *format.Result {
	return g.registry.List()
}

// BridgeStatus implements router.Dispatcher.
func (g *Gateway) BridgeStatus(context.Context) *format.Result {
	return g.registry.Status()
}

// Send implements router.Dispatcher.
func (g *Gateway) Send(ctx context.Context, p protocol.Protocol, target, payload string) *format.Result {
	return g.adapters.Send(ctx, p, target, payload)
}

// Read implements router.Dispatcher.
func (g *Gateway) Read(ctx context.Context, p protocol.Protocol, target string) *format.Result {
	return g.adapters.Read(ctx, p, target)
}
