// ABOUTME: Persistent bidirectional socket adapter over gorilla/websocket.
// ABOUTME: Host connect preferred; constrained environments get a demo record.

package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/host"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// recentFrames is how many buffered frames a read replays.
const recentFrames = 10

// replyWait is how long a send waits for an opportunistic reply frame.
const replyWait = 2 * time.Second

type socketAdapter struct {
	deps *Deps

	mu   sync.Mutex
	live map[string]*websocket.Conn
}

func newSocketAdapter(d *Deps) *socketAdapter {
	return &socketAdapter{deps: d, live: make(map[string]*websocket.Conn)}
}

func (a *socketAdapter) Protocol() protocol.Protocol { return protocol.WebSocket }

// Read either replays recent traffic for an already-known connection or
// establishes a new one: host RPC, then a live dial, then a
// registration record for constrained environments.
func (a *socketAdapter) Read(ctx context.Context, url string) *format.Result {
	if strings.TrimSpace(url) == "" {
		return format.Error("A socket URL is required. Try: bridge ws wss://echo.example.com")
	}

	if conn, ok := a.deps.Conns.Get(url); ok && conn.MessageCount > 0 {
		frames := conn.Frames()
		if len(frames) > recentFrames {
			frames = frames[len(frames)-recentFrames:]
		}
		var b strings.Builder
		for _, f := range frames {
			fmt.Fprintf(&b, "[%s] %s: %s\n", format.RelativeAge(f.Timestamp), f.Direction, f.Data)
		}
		res := format.Success(strings.TrimRight(b.String(), "\n")).
			WithTitle(fmt.Sprintf("Socket %s (%d messages)", url, conn.MessageCount)).
			WithSummary(fmt.Sprintf("%d messages on the socket, last %s",
				conn.MessageCount, format.RelativeAge(conn.LastMessage)))
		res.Meta.CacheHit = true
		res.Meta.SourceURL = url
		a.deps.record(ctx, protocol.WebSocket, ledger.Received, url, res.Blocks[0].Text)
		return res
	}

	res := a.connect(ctx, url)
	a.deps.record(ctx, protocol.WebSocket, ledger.Received, url, res.Blocks[0].Text)
	return res
}

// connect runs the connection fallback chain for a URL.
func (a *socketAdapter) connect(ctx context.Context, url string) *format.Result {
	res := a.deps.firstOf(ctx, "socket connect "+url, []step{
		{name: "host", run: func(ctx context.Context) (*format.Result, bool) {
			_, err := a.deps.Host.Call(ctx, host.OpSocketConnect, host.SocketArgs{URL: url})
			if err != nil {
				if !errors.Is(err, host.ErrUnavailable) {
					a.deps.Logger.Warn("host socket-connect failed", "url", url, "error", err)
				}
				return nil, false
			}
			conn, _ := a.deps.Conns.Ensure(url)
			return format.Successf("Connected to %s (id %s) via the host", url, conn.ID).
				WithTitle("Socket connected").
				WithSummary("Socket connected, send a message to start the exchange"), true
		}},
		{name: "dial", run: func(ctx context.Context) (*format.Result, bool) {
			dialer := websocket.Dialer{HandshakeTimeout: a.deps.ConnectTimeout}
			ws, _, err := dialer.DialContext(ctx, url, nil)
			if err != nil {
				a.deps.Logger.Debug("direct dial failed", "url", url, "error", err)
				return nil, false
			}
			a.mu.Lock()
			a.live[url] = ws
			a.mu.Unlock()
			conn, _ := a.deps.Conns.Ensure(url)
			return format.Successf("Connected to %s (id %s)", url, conn.ID).
				WithTitle("Socket connected").
				WithSummary("Socket connected, send a message to start the exchange"), true
		}},
	})

	if res == nil {
		// Constrained environment: register the connection without a
		// live socket so sends still accumulate session history.
		conn, existed := a.deps.Conns.Ensure(url)
		verb := "Registered"
		if existed {
			verb = "Re-registered"
		}
		res = format.Successf(
			"%s socket %s (id %s) without a live connection — messages will be recorded locally",
			verb, url, conn.ID).
			WithTitle("Socket registered").
			WithSummary("Socket registered in offline mode")
	}
	res.Meta.SourceURL = url
	return res
}

// Send requires an existing or newly created record, then delivers the
// message via host RPC or the live socket, recording every exchange.
func (a *socketAdapter) Send(ctx context.Context, url, message string) *format.Result {
	if strings.TrimSpace(url) == "" {
		return format.Error("A socket URL is required. Try: send ws wss://echo.example.com hello")
	}

	if _, ok := a.deps.Conns.Get(url); !ok {
		if res := a.connect(ctx, url); res.Status == format.StatusError {
			return res
		}
	}

	via := "recorded locally"
	if _, err := a.deps.Host.Call(ctx, host.OpSocketSend, host.SocketArgs{URL: url, Message: message}); err == nil {
		via = "via the host"
	} else {
		if !errors.Is(err, host.ErrUnavailable) {
			a.deps.Logger.Warn("host socket-send failed", "url", url, "error", err)
		}
		a.mu.Lock()
		ws := a.live[url]
		a.mu.Unlock()
		if ws != nil {
			if werr := ws.WriteMessage(websocket.TextMessage, []byte(message)); werr == nil {
				via = "over the live socket"
				a.readReply(ctx, url, ws)
			} else {
				a.deps.Logger.Warn("socket write failed", "url", url, "error", werr)
				a.dropLive(url)
			}
		}
	}

	conn := a.deps.Conns.Record(url, message, ledger.Sent)
	a.deps.record(ctx, protocol.WebSocket, ledger.Sent, url, message)

	return format.Successf("Sent to %s (%s). Connection has %d messages.", url, via, conn.MessageCount).
		WithTitle("Socket message sent").
		WithSummary(fmt.Sprintf("Message sent %s", via))
}

// readReply waits briefly for a reply frame and records it when one
// arrives. Silence is normal; sends never fail on it.
func (a *socketAdapter) readReply(ctx context.Context, url string, ws *websocket.Conn) {
	_ = ws.SetReadDeadline(time.Now().Add(replyWait))
	_, data, err := ws.ReadMessage()
	if err != nil {
		return
	}
	a.deps.Conns.Record(url, string(data), ledger.Received)
	a.deps.record(ctx, protocol.WebSocket, ledger.Received, url, string(data))
}

func (a *socketAdapter) dropLive(url string) {
	a.mu.Lock()
	if ws, ok := a.live[url]; ok {
		ws.Close()
		delete(a.live, url)
	}
	a.mu.Unlock()
}

// close shuts every live socket down.
func (a *socketAdapter) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for url, ws := range a.live {
		ws.Close()
		delete(a.live, url)
	}
}
