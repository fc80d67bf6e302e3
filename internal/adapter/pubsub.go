// ABOUTME: Pub/sub adapter: cache → injected client → host RPC fallbacks.
// ABOUTME: Send updates the local cache unconditionally for read-after-write.

package adapter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/host"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

type pubsubAdapter struct {
	deps *Deps
}

func (a *pubsubAdapter) Protocol() protocol.Protocol { return protocol.PubSub }

// Read resolves a topic (possibly a wildcard filter) through the
// fallback chain: local cache, injected client, privileged host.
func (a *pubsubAdapter) Read(ctx context.Context, topic string) *format.Result {
	if strings.TrimSpace(topic) == "" {
		return format.Error("A topic is required. Try: bridge mqtt home/lights")
	}

	res := a.deps.firstOf(ctx, "pubsub read "+topic, []step{
		{name: "cache", run: func(context.Context) (*format.Result, bool) {
			matches := a.deps.Topics.Match(topic)
			if len(matches) == 0 {
				return nil, false
			}
			var b strings.Builder
			for _, m := range matches {
				fmt.Fprintf(&b, "%s: %s (%s)\n", m.Topic, m.Payload, format.RelativeAge(m.Timestamp))
			}
			out := format.Success(strings.TrimRight(b.String(), "\n")).
				WithTitle(fmt.Sprintf("Topic %s", topic)).
				WithSummary(summarizeTopics(matches[0].Topic, matches[0].Payload, len(matches)))
			out.Meta.CacheHit = true
			return out, true
		}},
		{name: "client", run: func(context.Context) (*format.Result, bool) {
			if a.deps.PubSub == nil {
				return nil, false
			}
			payload, ok := a.deps.PubSub.LastValue(topic)
			if !ok {
				return nil, false
			}
			a.deps.Topics.Set(topic, payload)
			return format.Successf("%s: %s", topic, payload).
				WithTitle(fmt.Sprintf("Topic %s", topic)).
				WithSummary(summarizeTopics(topic, payload, 1)), true
		}},
		{name: "host", run: func(ctx context.Context) (*format.Result, bool) {
			raw, err := a.deps.Host.Call(ctx, host.OpReadTopic, host.TopicArgs{Topic: topic})
			if err != nil {
				if !errors.Is(err, host.ErrUnavailable) {
					a.deps.Logger.Warn("host read-topic failed", "topic", topic, "error", err)
				}
				return nil, false
			}
			var rep host.TopicReply
			if err := decodeJSON(raw, &rep); err != nil || rep.Payload == "" {
				return nil, false
			}
			a.deps.Topics.Set(rep.Topic, rep.Payload)
			return format.Successf("%s: %s", rep.Topic, rep.Payload).
				WithTitle(fmt.Sprintf("Topic %s", topic)).
				WithSummary(summarizeTopics(rep.Topic, rep.Payload, 1)), true
		}},
	})

	if res == nil {
		cached := a.deps.Topics.Topics()
		hint := "no topics cached yet — publish something first: send mqtt home/lights on"
		if len(cached) > 0 {
			hint = "currently cached topics: " + strings.Join(cached, ", ")
		}
		res = format.Partialf("No value for topic %s yet (%s)", topic, hint).
			WithTitle("Topic miss")
	}

	a.deps.record(ctx, protocol.PubSub, ledger.Received, topic, res.Blocks[0].Text)
	return res
}

// Send publishes a payload. Host and injected client are both
// best-effort; the local cache is updated regardless so a same-process
// read stays consistent even when the network publish failed.
func (a *pubsubAdapter) Send(ctx context.Context, topic, payload string) *format.Result {
	if strings.TrimSpace(topic) == "" {
		return format.Error("A topic is required. Try: send mqtt home/lights on")
	}

	delivered := []string{}

	if _, err := a.deps.Host.Call(ctx, host.OpPublishTopic, host.TopicArgs{Topic: topic, Payload: payload}); err != nil {
		if !errors.Is(err, host.ErrUnavailable) {
			a.deps.Logger.Warn("host publish failed", "topic", topic, "error", err)
		}
	} else {
		delivered = append(delivered, "host")
	}

	if a.deps.PubSub != nil {
		if err := a.deps.PubSub.Publish(ctx, topic, payload); err != nil {
			a.deps.Logger.Warn("client publish failed", "topic", topic, "error", err)
		} else {
			delivered = append(delivered, "broker")
		}
	}

	a.deps.Topics.Set(topic, payload)
	a.deps.record(ctx, protocol.PubSub, ledger.Sent, topic, payload)

	via := "cached locally"
	if len(delivered) > 0 {
		via = "via " + strings.Join(delivered, " and ")
	}
	return format.Successf("Published %s to %s (%s)", payload, topic, via).
		WithTitle("Published").
		WithSummary(fmt.Sprintf("Published %s to %s", payload, topic))
}

// summarizeTopics builds the spoken form of a topic read.
func summarizeTopics(topic, payload string, n int) string {
	if n > 1 {
		return fmt.Sprintf("%d topics matched, first %s is %s", n, topic, format.Snippet(payload, 60))
	}
	return fmt.Sprintf("%s is %s", topic, format.Snippet(payload, 60))
}
