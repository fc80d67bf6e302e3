// ABOUTME: Tests for the protocol adapters and their fallback chains.
// ABOUTME: Hosts, fetchers, and parsers are faked; no network is assumed.

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/host"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// fakeHost routes privileged calls to a function.
type fakeHost func(ctx context.Context, op host.Op, args any) (json.RawMessage, error)

func (f fakeHost) Call(ctx context.Context, op host.Op, args any) (json.RawMessage, error) {
	return f(ctx, op, args)
}

// fakeTracker records attribution calls.
type fakeTracker struct {
	calls []string
}

func (t *fakeTracker) Track(p protocol.Protocol, target string, dir ledger.Direction) string {
	t.calls = append(t.calls, string(p)+" "+target)
	return ledger.AdHocEndpoint
}

// failingTransport fails every request before any HTTP status exists.
type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network unreachable")
}

func newTestSet(t *testing.T, mutate func(*Deps)) (*Set, *ledger.Ledger) {
	t.Helper()
	log := ledger.New()
	deps := Deps{
		Ledger:         log,
		Tracker:        &fakeTracker{},
		ConnectTimeout: 200 * time.Millisecond,
		FetchTimeout:   2 * time.Second,
	}
	if mutate != nil {
		mutate(&deps)
	}
	set := NewSet(deps)
	t.Cleanup(set.Close)
	return set, log
}

func TestPubSub_RoundTripThroughCache(t *testing.T) {
	set, _ := newTestSet(t, nil)
	ctx := context.Background()

	// Publish with no reachable broker and no host
	res := set.Send(ctx, protocol.PubSub, "home/lights", "on")
	require.Equal(t, format.StatusSuccess, res.Status)

	// An immediate read answers from the local cache
	res = set.Read(ctx, protocol.PubSub, "home/lights")
	require.Equal(t, format.StatusSuccess, res.Status)
	assert.Contains(t, res.Text(), "on")
	assert.True(t, res.Meta.CacheHit)
}

func TestPubSub_WildcardRead(t *testing.T) {
	set, _ := newTestSet(t, nil)
	ctx := context.Background()

	set.Send(ctx, protocol.PubSub, "home/kitchen/status", "ok")
	set.Send(ctx, protocol.PubSub, "home/bath/status", "damp")
	set.Send(ctx, protocol.PubSub, "home/kitchen/status/extra", "noise")

	res := set.Read(ctx, protocol.PubSub, "home/+/status")
	require.Equal(t, format.StatusSuccess, res.Status)
	text := res.Text()
	assert.Contains(t, text, "home/kitchen/status: ok")
	assert.Contains(t, text, "home/bath/status: damp")
	assert.NotContains(t, text, "noise")
}

func TestPubSub_MissReturnsPartialWithHints(t *testing.T) {
	set, _ := newTestSet(t, nil)
	ctx := context.Background()

	set.Send(ctx, protocol.PubSub, "home/lights", "off")

	res := set.Read(ctx, protocol.PubSub, "office/door")
	assert.Equal(t, format.StatusPartial, res.Status)
	// Cached topics come back as the recovery hint
	assert.Contains(t, res.Text(), "home/lights")
}

func TestPubSub_SendCachesEvenWhenHostPublishFails(t *testing.T) {
	set, _ := newTestSet(t, func(d *Deps) {
		d.Host = fakeHost(func(context.Context, host.Op, any) (json.RawMessage, error) {
			return nil, errors.New("broker exploded")
		})
	})
	ctx := context.Background()

	res := set.Send(ctx, protocol.PubSub, "home/lights", "on")
	require.Equal(t, format.StatusSuccess, res.Status)

	// The failed network publish still left the local cache consistent
	res = set.Read(ctx, protocol.PubSub, "home/lights")
	require.Equal(t, format.StatusSuccess, res.Status)
	assert.Contains(t, res.Text(), "on")
}

func TestPubSub_HostReadFallback(t *testing.T) {
	set, _ := newTestSet(t, func(d *Deps) {
		d.Host = fakeHost(func(_ context.Context, op host.Op, _ any) (json.RawMessage, error) {
			require.Equal(t, host.OpReadTopic, op)
			return json.Marshal(host.TopicReply{Topic: "garage/door", Payload: "closed"})
		})
	})

	res := set.Read(context.Background(), protocol.PubSub, "garage/door")
	require.Equal(t, format.StatusSuccess, res.Status)
	assert.Contains(t, res.Text(), "closed")
}

func TestREST_TransportFailureIsStatusZero(t *testing.T) {
	set, _ := newTestSet(t, func(d *Deps) {
		d.HTTPClient = &http.Client{Transport: failingTransport{}}
	})

	res := set.Read(context.Background(), protocol.REST, "GET https://api.example.com/status")
	assert.Equal(t, format.StatusError, res.Status)
	assert.Equal(t, 0, res.Meta.StatusCode)
	assert.Contains(t, res.Text(), "network unreachable")
	// A corrective usage example is embedded
	assert.Contains(t, res.Text(), "bridge rest GET")
}

func TestREST_JSONResponseSummarized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"healthy","uptime":42}`))
	}))
	defer srv.Close()

	set, log := newTestSet(t, nil)
	res := set.Read(context.Background(), protocol.REST, srv.URL)

	require.Equal(t, format.StatusSuccess, res.Status)
	assert.Equal(t, http.StatusOK, res.Meta.StatusCode)
	assert.Contains(t, res.Blocks[0].Summary, "status: healthy")
	assert.Contains(t, res.Blocks[0].Summary, "uptime: 42")
	assert.Equal(t, 1, log.Len())
}

func TestREST_SendPosts(t *testing.T) {
	var gotMethod, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	set, _ := newTestSet(t, nil)
	res := set.Send(context.Background(), protocol.REST, srv.URL, `{"name":"demo"}`)

	require.Equal(t, format.StatusSuccess, res.Status)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, `{"name":"demo"}`, gotBody)
}

func TestGraphQL_ErrorMessageSurfacesFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Cannot query field nope"},{"message":"second"}]}`))
	}))
	defer srv.Close()

	set, _ := newTestSet(t, nil)
	res := set.Read(context.Background(), protocol.GraphQL, srv.URL+" { nope }")

	assert.Equal(t, format.StatusPartial, res.Status)
	// The first error's message leads the voice summary, not raw JSON
	assert.Contains(t, res.Blocks[0].Summary, "Cannot query field nope")
	assert.NotContains(t, res.Blocks[0].Summary, "{")
}

func TestGraphQL_DataSummarized(t *testing.T) {
	var gotBody struct {
		Query string `json:"query"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"data":{"viewer":{"name":"broxeen"}}}`))
	}))
	defer srv.Close()

	set, _ := newTestSet(t, nil)
	res := set.Read(context.Background(), protocol.GraphQL, srv.URL+" { viewer { name } }")

	require.Equal(t, format.StatusSuccess, res.Status)
	assert.Equal(t, "{ viewer { name } }", gotBody.Query)
	assert.Contains(t, res.Blocks[0].Summary, "name: broxeen")
}

func TestGraphQL_MissingQueryBlock(t *testing.T) {
	set, _ := newTestSet(t, nil)
	res := set.Read(context.Background(), protocol.GraphQL, "https://api.example.com/graphql")
	assert.Equal(t, format.StatusError, res.Status)
	assert.Contains(t, res.Text(), "query block")
}

func TestSplitQuery_BalancesNestedBraces(t *testing.T) {
	url, query := splitQuery("https://x/graphql { a { b { c } } } trailing")
	assert.Equal(t, "https://x/graphql", url)
	assert.Equal(t, "{ a { b { c } } }", query)

	_, query = splitQuery("https://x/graphql { unbalanced {")
	assert.Empty(t, query)
}
