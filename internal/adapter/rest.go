// ABOUTME: REST adapter: send and read both reduce to one fetchRest path.
// ABOUTME: Host RPC preferred, direct HTTP otherwise; failures are status 0.

package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/host"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// maxRESTBody caps how much of a response body is read.
const maxRESTBody = 256 * 1024

// restReply is the outcome of one fetchRest call. StatusCode 0 means
// the transport failed before any HTTP status existed.
type restReply struct {
	StatusCode int
	Body       string
	Diagnostic string
}

// fetchRest performs one HTTP exchange: privileged host first (it
// carries credentials and works in restricted contexts), then a direct
// network call. Never returns an error; transport failures come back
// as StatusCode 0 with a diagnostic.
func (d *Deps) fetchRest(ctx context.Context, method, url, body string) restReply {
	raw, err := d.Host.Call(ctx, host.OpRESTCall, host.RESTArgs{Method: method, URL: url, Body: body})
	if err == nil {
		var rep host.RESTReply
		if jerr := decodeJSON(raw, &rep); jerr == nil {
			return restReply{StatusCode: rep.Status, Body: rep.Body}
		}
	} else if !errors.Is(err, host.ErrUnavailable) {
		d.Logger.Warn("host rest-call failed, trying direct", "url", url, "error", err)
	}

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return restReply{Diagnostic: "could not build request: " + err.Error()}
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return restReply{Diagnostic: "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRESTBody))
	if err != nil {
		return restReply{StatusCode: resp.StatusCode, Diagnostic: "reading response failed: " + err.Error()}
	}
	return restReply{StatusCode: resp.StatusCode, Body: string(data)}
}

// restAdapter serves plain HTTP targets.
type restAdapter struct {
	deps *Deps
}

func (a *restAdapter) Protocol() protocol.Protocol { return protocol.REST }

// Read fetches a target. The target may carry a leading HTTP method
// ("GET https://…"); without one, GET is assumed.
func (a *restAdapter) Read(ctx context.Context, target string) *format.Result {
	method, url := splitMethod(target)
	if url == "" {
		return format.Error("A URL is required. Try: bridge rest GET https://api.example.com/status")
	}

	rep := a.deps.fetchRest(ctx, method, url, "")
	a.deps.record(ctx, protocol.REST, ledger.Received, url, rep.Body)
	return renderREST(rep, url)
}

// Send POSTs a payload to a target.
func (a *restAdapter) Send(ctx context.Context, target, payload string) *format.Result {
	method, url := splitMethod(target)
	if method == http.MethodGet {
		method = http.MethodPost
	}
	if url == "" {
		return format.Error("A URL is required. Try: send rest https://api.example.com/items {\"name\":\"demo\"}")
	}

	rep := a.deps.fetchRest(ctx, method, url, payload)
	a.deps.record(ctx, protocol.REST, ledger.Sent, url, payload)
	return renderREST(rep, url)
}

// renderREST converts a restReply into the uniform result shape.
func renderREST(rep restReply, url string) *format.Result {
	if rep.StatusCode == 0 {
		res := format.Errorf(
			"Could not reach %s (%s).\nTry: bridge rest GET %s once the network is available",
			url, rep.Diagnostic, url)
		res.Meta.SourceURL = url
		return res
	}

	body := rep.Body
	truncated := false
	if len(body) > ledger.MaxPayload {
		body, truncated = body[:ledger.MaxPayload], true
	}

	text := body
	if pretty, ok := format.PrettyJSON(rep.Body); ok {
		text = pretty
		if len(text) > 2*ledger.MaxPayload {
			text, truncated = text[:2*ledger.MaxPayload], true
		}
	}

	res := format.Successf("HTTP %d from %s\n%s", rep.StatusCode, url, text).
		WithTitle("REST response").
		WithSummary(format.VoiceSummary(rep.Body))
	if rep.StatusCode >= 400 {
		res.Status = format.StatusPartial
	}
	res.Meta.StatusCode = rep.StatusCode
	res.Meta.SourceURL = url
	res.Meta.Truncated = truncated
	return res
}

// splitMethod splits an optional leading HTTP verb off a target.
func splitMethod(target string) (method, url string) {
	target = strings.TrimSpace(target)
	parts := strings.SplitN(target, " ", 2)
	if len(parts) == 2 {
		switch strings.ToUpper(parts[0]) {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead:
			return strings.ToUpper(parts[0]), strings.TrimSpace(parts[1])
		}
	}
	return http.MethodGet, target
}
