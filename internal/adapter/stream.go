// ABOUTME: One-way push-stream adapter (server-sent events).
// ABOUTME: Replays accumulated events or opens the stream and seeds a batch.

package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/r3labs/sse/v2"
	backoff "gopkg.in/cenkalti/backoff.v1"

	"github.com/wronai/broxeen-sub001/internal/cache"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/host"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// initialBatch is how many events a fresh stream read waits for before
// returning.
const initialBatch = 5

type streamAdapter struct {
	deps *Deps
}

func (a *streamAdapter) Protocol() protocol.Protocol { return protocol.SSE }

// Read returns accumulated events when the stream is known, otherwise
// opens it: host RPC first, then a live SSE subscribe bounded by the
// connect timeout, then a registration placeholder.
func (a *streamAdapter) Read(ctx context.Context, url string) *format.Result {
	if strings.TrimSpace(url) == "" {
		return format.Error("A stream URL is required. Try: bridge sse https://push.example.com/events")
	}

	if s, ok := a.deps.Streams.Get(url); ok && s.EventCount > 0 {
		res := renderStream(s.URL, s.EventCount, s.Events())
		res.Meta.CacheHit = true
		a.deps.record(ctx, protocol.SSE, ledger.Received, url, res.Blocks[0].Text)
		return res
	}

	res := a.deps.firstOf(ctx, "stream open "+url, []step{
		{name: "host", run: func(ctx context.Context) (*format.Result, bool) {
			raw, err := a.deps.Host.Call(ctx, host.OpStreamConnect, host.StreamArgs{URL: url})
			if err != nil {
				if !errors.Is(err, host.ErrUnavailable) {
					a.deps.Logger.Warn("host stream-connect failed", "url", url, "error", err)
				}
				return nil, false
			}
			var rep host.StreamReply
			if err := decodeJSON(raw, &rep); err != nil || len(rep.Events) == 0 {
				return nil, false
			}
			s, _ := a.deps.Streams.Ensure(url)
			for _, ev := range rep.Events {
				s = a.deps.Streams.Record(url, ev.Type, ev.Data)
			}
			return renderStream(url, s.EventCount, s.Events()), true
		}},
		{name: "subscribe", run: func(ctx context.Context) (*format.Result, bool) {
			events, err := a.collect(ctx, url)
			if err != nil && len(events) == 0 {
				a.deps.Logger.Debug("live subscribe failed", "url", url, "error", err)
				return nil, false
			}
			s, _ := a.deps.Streams.Ensure(url)
			for _, ev := range events {
				s = a.deps.Streams.Record(url, ev.Type, ev.Data)
			}
			return renderStream(url, s.EventCount, s.Events()), true
		}},
	})

	if res == nil {
		s, _ := a.deps.Streams.Ensure(url)
		res = format.Partialf(
			"Stream %s registered (id %s) but no events arrived yet. Ask again later: bridge sse %s",
			url, s.ID, url).
			WithTitle("Stream registered")
		res.Meta.SourceURL = url
	}

	a.deps.record(ctx, protocol.SSE, ledger.Received, url, res.Blocks[0].Text)
	return res
}

// Send is rejected: push streams are one-way.
func (a *streamAdapter) Send(context.Context, string, string) *format.Result {
	return readOnly(protocol.SSE)
}

// collect subscribes to a live stream and drains an initial batch,
// bounded by the connect timeout.
func (a *streamAdapter) collect(ctx context.Context, url string) ([]host.StreamEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, a.deps.ConnectTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		events []host.StreamEvent
	)

	client := sse.NewClient(url)
	// The client's default reconnect strategy ignores ctx between retries;
	// bind it so the connect timeout above actually bounds the subscribe.
	client.ReconnectStrategy = backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	err := client.SubscribeRawWithContext(ctx, func(msg *sse.Event) {
		mu.Lock()
		events = append(events, host.StreamEvent{
			Type: string(msg.Event),
			Data: string(msg.Data),
		})
		n := len(events)
		mu.Unlock()
		if n >= initialBatch {
			cancel()
		}
	})

	mu.Lock()
	defer mu.Unlock()
	if len(events) > 0 {
		return events, nil
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return nil, fmt.Errorf("no events from %s within %s", url, a.deps.ConnectTimeout)
}

// renderStream renders accumulated events into the uniform result shape.
func renderStream(url string, total int, events []cache.Event) *format.Result {
	var b strings.Builder
	for _, ev := range events {
		typ := ev.Type
		if typ == "" {
			typ = "message"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", format.RelativeAge(ev.Timestamp), typ, ev.Data)
	}
	res := format.Success(strings.TrimRight(b.String(), "\n")).
		WithTitle(fmt.Sprintf("Stream %s (%d events)", url, total)).
		WithSummary(fmt.Sprintf("%d events on the stream", total))
	res.Meta.SourceURL = url
	return res
}
