// ABOUTME: Classifies free-text utterances into bridge operations.
// ABOUTME: Ordered pattern table, then scheme sniff, then NL cues, then help.

package router

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// Dispatcher executes the operations the router resolves. The gateway
// service implements it.
type Dispatcher interface {
	AddBridge(ctx context.Context, p protocol.Protocol, url string, targets []string) *format.Result
	RemoveBridge(ctx context.Context, id string) *format.Result
	ListBridges(ctx context.Context) *format.Result
	BridgeStatus(ctx context.Context) *format.Result
	Send(ctx context.Context, p protocol.Protocol, target, payload string) *format.Result
	Read(ctx context.Context, p protocol.Protocol, target string) *format.Result
}

// route pairs a compiled pattern with its handler. The table is
// evaluated top to bottom; the first match wins, which is what keeps
// "remove"/"list" phrasing from reaching the generic read handler.
type route struct {
	name   string
	re     *regexp.Regexp
	handle func(ctx context.Context, m []string) *format.Result
}

// Router resolves utterances in three tiers: the pattern table, a raw
// URL-scheme sniff, and a natural-language cue sniff. Whatever remains
// falls to the affordance help.
type Router struct {
	dispatcher Dispatcher
	routes     []route
	logger     *slog.Logger
}

var urlRe = regexp.MustCompile(`\S+://\S+`)

// New builds the router over a dispatcher.
func New(d Dispatcher, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{dispatcher: d, logger: logger.With("component", "router")}

	r.routes = []route{
		{
			name: "add",
			re:   regexp.MustCompile(`(?i)^\s*add\s+bridge\s+(\S+)\s+(\S+)(?:\s+(.+))?$`),
			handle: func(ctx context.Context, m []string) *format.Result {
				p, err := protocol.Parse(m[1])
				if err != nil {
					return unknownProtocol(m[1])
				}
				return d.AddBridge(ctx, p, m[2], splitTargets(m[3]))
			},
		},
		{
			name: "remove",
			re:   regexp.MustCompile(`(?i)^\s*remove\s+bridge\s+(\S+)\s*$`),
			handle: func(ctx context.Context, m []string) *format.Result {
				return d.RemoveBridge(ctx, m[1])
			},
		},
		{
			name: "list",
			re:   regexp.MustCompile(`(?i)^\s*(?:list\s+bridges?|bridges?\s+list|show\s+bridges?)\s*$`),
			handle: func(ctx context.Context, _ []string) *format.Result {
				return d.ListBridges(ctx)
			},
		},
		{
			name: "status",
			re:   regexp.MustCompile(`(?i)^\s*bridge\s+status\s*$`),
			handle: func(ctx context.Context, _ []string) *format.Result {
				return d.BridgeStatus(ctx)
			},
		},
		{
			name: "send",
			re:   regexp.MustCompile(`(?i)^\s*send\s+(\S+)\s+(\S+)\s+(.+)$`),
			handle: func(ctx context.Context, m []string) *format.Result {
				p, err := protocol.Parse(m[1])
				if err != nil {
					return unknownProtocol(m[1])
				}
				return d.Send(ctx, p, m[2], strings.TrimSpace(m[3]))
			},
		},
		{
			name: "read",
			re:   regexp.MustCompile(`(?i)^\s*bridge\s+(\S+)\s+(.+)$`),
			handle: func(ctx context.Context, m []string) *format.Result {
				p, err := protocol.Parse(m[1])
				if err != nil {
					return unknownProtocol(m[1])
				}
				return d.Read(ctx, p, strings.TrimSpace(m[2]))
			},
		},
	}

	return r
}

// CanHandle is the cheap, side-effect-free pre-check an upstream intent
// classifier uses to decide whether this component gets the input.
func (r *Router) CanHandle(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "bridge") || strings.HasPrefix(strings.TrimSpace(lower), "send ") {
		return true
	}
	if _, ok := protocol.FromScheme(strings.TrimSpace(text)); ok {
		return true
	}
	_, ok := protocol.FromCue(text)
	return ok
}

// Handle resolves one utterance into exactly one reply.
func (r *Router) Handle(ctx context.Context, text string) *format.Result {
	// Tier 1: the ordered pattern table
	for _, rt := range r.routes {
		if m := rt.re.FindStringSubmatch(text); m != nil {
			r.logger.Debug("routed", "route", rt.name)
			return rt.handle(ctx, m)
		}
	}

	trimmed := strings.TrimSpace(text)

	// Tier 2: a bare URL resolves by scheme
	if p, ok := protocol.FromScheme(trimmed); ok {
		r.logger.Debug("routed by scheme", "protocol", p)
		return r.dispatcher.Read(ctx, p, trimmed)
	}

	// Tier 3: natural-language cues
	if p, ok := protocol.FromCue(text); ok {
		target := trimmed
		if m := urlRe.FindString(text); m != "" {
			target = m
		}
		r.logger.Debug("routed by cue", "protocol", p)
		return r.dispatcher.Read(ctx, p, target)
	}

	r.logger.Debug("unresolved input", "text", format.Snippet(text, 60))
	return help()
}

// help lists every affordance for input nothing else recognized.
func help() *format.Result {
	return format.SuggestManagement(format.Success(strings.TrimSpace(`
I can bridge these protocols for you:
  bridge <protocol> <target> — read from a bridge
  send <protocol> <target> <payload> — send through a bridge
  add bridge <protocol> <url> [targets] — configure a bridge
  remove bridge <id>
  list bridges
  bridge status
Protocols: pub-sub (mqtt), rest, websocket, sse, graphql, rss, atom, ftp`)).
		WithTitle("Protocol bridge").
		WithSummary("Tell me which protocol to bridge, for example: bridge mqtt home/lights"))
}

// unknownProtocol builds the corrective reply for a bad protocol name.
func unknownProtocol(name string) *format.Result {
	return format.Errorf(
		"I don't know the protocol %q. Supported: pub-sub (mqtt), rest, websocket, sse, graphql, rss, atom, ftp.\nTry: bridge mqtt home/lights",
		name)
}

// splitTargets splits the optional targets argument on spaces and commas.
func splitTargets(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
