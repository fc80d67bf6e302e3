// ABOUTME: End-to-end tests for the gateway service over faked networks.
// ABOUTME: End-to-end scenarios, utterance in and reply out.

package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// deadPages is a PageFetcher for tests with no network.
type deadPages struct{}

func (deadPages) Fetch(context.Context, string) (string, string, error) {
	return "", "", errors.New("offline")
}

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()
	g := New(Options{Pages: deadPages{}})
	t.Cleanup(g.Close)
	return g
}

func TestScenario_AddMQTTBridge(t *testing.T) {
	g := newTestGateway(t)

	res := g.Handle(context.Background(), "add bridge mqtt ws://broker:9001 home/sensors/#", ledger.SourceText)
	require.Equal(t, format.StatusSuccess, res.Status)

	eps := g.Endpoints()
	require.Len(t, eps, 1)
	ep := eps[0]
	assert.Equal(t, protocol.PubSub, ep.Protocol)
	assert.Equal(t, "ws://broker:9001", ep.URL)
	assert.Equal(t, []string{"home/sensors/#"}, ep.Targets)
	assert.Equal(t, protocol.Bidirectional, ep.Direction)
	assert.True(t, strings.HasPrefix(ep.ID, "pub-sub-"), ep.ID)

	// The reply carries the protocol's next steps
	assert.Contains(t, res.Text(), "read the topic")
}

func TestScenario_PubSubRoundTripOffline(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	res := g.Handle(ctx, "send mqtt home/lights on", ledger.SourceVoice)
	require.Equal(t, format.StatusSuccess, res.Status)

	res = g.Handle(ctx, "bridge mqtt home/lights", ledger.SourceVoice)
	require.Equal(t, format.StatusSuccess, res.Status)
	assert.Contains(t, res.Text(), "on")
	assert.True(t, res.Meta.CacheHit)
}

func TestScenario_RESTWithoutNetwork(t *testing.T) {
	g := newTestGateway(t)

	// 127.0.0.1:1 refuses connections; the reply must be a diagnostic,
	// never an unhandled failure
	res := g.Handle(context.Background(), "bridge rest GET http://127.0.0.1:1/status", ledger.SourceText)
	assert.Equal(t, format.StatusError, res.Status)
	assert.Equal(t, 0, res.Meta.StatusCode)
	assert.Contains(t, res.Text(), "Could not reach")
}

func TestScenario_SendAttributedToEndpoint(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	g.Handle(ctx, "add bridge mqtt mqtt://broker:1883 home/sensors/#", ledger.SourceText)
	g.Handle(ctx, "send mqtt home/sensors/kitchen 21.5", ledger.SourceText)

	ep := g.Endpoints()[0]
	assert.Equal(t, 1, ep.MessageCount)
	assert.False(t, ep.LastActivity.IsZero())
}

func TestScenario_StatusReflectsTraffic(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	g.Handle(ctx, "add bridge mqtt mqtt://broker:1883", ledger.SourceText)
	g.Handle(ctx, "send mqtt home/lights on", ledger.SourceText)

	res := g.Handle(ctx, "bridge status", ledger.SourceText)
	require.Equal(t, format.StatusSuccess, res.Status)
	text := res.Text()
	assert.Contains(t, text, "pub-sub: 1")
	assert.Contains(t, text, "home/lights")
}

func TestScenario_RemoveUnknownListsBridges(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	g.Handle(ctx, "add bridge ws wss://echo.example.com", ledger.SourceText)

	res := g.Handle(ctx, "remove bridge websocket-zzz", ledger.SourceText)
	assert.Equal(t, format.StatusPartial, res.Status)
	assert.Contains(t, res.Text(), "wss://echo.example.com")
	assert.Len(t, g.Endpoints(), 1)
}

func TestScenario_HelpForUnrecognizedInput(t *testing.T) {
	g := newTestGateway(t)

	res := g.Handle(context.Background(), "make me a sandwich", ledger.SourceText)
	assert.Equal(t, format.StatusSuccess, res.Status)
	assert.Contains(t, res.Text(), "add bridge <protocol>")
}

func TestCanHandle_Precheck(t *testing.T) {
	g := newTestGateway(t)

	assert.True(t, g.CanHandle("bridge status"))
	assert.True(t, g.CanHandle("mqtt://broker:1883"))
	assert.False(t, g.CanHandle("play some music"))
}

func TestHandle_NeverPanics(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	inputs := []string{
		"",
		"bridge",
		"send",
		"add bridge",
		"bridge graphql {{{",
		"send mqtt",
		strings.Repeat("x", 10000),
	}
	for _, in := range inputs {
		res := g.Handle(ctx, in, ledger.SourceAPI)
		require.NotNil(t, res, "input %q", in)
	}
}

func TestHandle_DurationMetadataStamped(t *testing.T) {
	g := newTestGateway(t)
	res := g.Handle(context.Background(), "bridge rest GET http://127.0.0.1:1/", ledger.SourceText)
	assert.NotZero(t, res.Meta.Duration)
}
