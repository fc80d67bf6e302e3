// ABOUTME: Graph-query adapter: a REST specialization that extracts a
// ABOUTME: brace-delimited query block and POSTs it as {"query": …}.

package adapter

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

type graphqlAdapter struct {
	deps *Deps
}

func (a *graphqlAdapter) Protocol() protocol.Protocol { return protocol.GraphQL }

// Read runs the query embedded in the target: everything before the
// first brace is the endpoint URL, the brace block is the query.
func (a *graphqlAdapter) Read(ctx context.Context, target string) *format.Result {
	url, query := splitQuery(target)
	return a.run(ctx, url, query)
}

// Send treats the payload as the query for the target URL.
func (a *graphqlAdapter) Send(ctx context.Context, target, payload string) *format.Result {
	url, query := splitQuery(target + " " + payload)
	return a.run(ctx, url, query)
}

func (a *graphqlAdapter) run(ctx context.Context, url, query string) *format.Result {
	if url == "" || query == "" {
		return format.Error(
			"A URL and a { … } query block are required.\nTry: bridge graphql https://api.example.com/graphql { viewer { name } }")
	}

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return format.Errorf("Could not encode the query: %v", err)
	}

	rep := a.deps.fetchRest(ctx, "POST", url, string(body))
	a.deps.record(ctx, protocol.GraphQL, ledger.Sent, url, query)
	if rep.StatusCode == 0 {
		res := format.Errorf(
			"Could not reach %s (%s).\nTry again once the network is available", url, rep.Diagnostic)
		res.Meta.SourceURL = url
		return res
	}
	a.deps.record(ctx, protocol.GraphQL, ledger.Received, url, rep.Body)

	return renderGraphQL(rep, url)
}

// renderGraphQL summarizes the data/errors envelope; the first error's
// message surfaces before anything else.
func renderGraphQL(rep restReply, url string) *format.Result {
	var envelope struct {
		Data   any `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	text, _ := format.PrettyJSON(rep.Body)
	if err := json.Unmarshal([]byte(rep.Body), &envelope); err != nil {
		res := format.Partialf("Response from %s was not a GraphQL envelope:\n%s",
			url, format.Snippet(rep.Body, ledger.MaxPayload))
		res.Meta.StatusCode = rep.StatusCode
		res.Meta.SourceURL = url
		return res
	}

	var res *format.Result
	switch {
	case len(envelope.Errors) > 0:
		first := envelope.Errors[0].Message
		res = format.Partialf("GraphQL error: %s\n%s", first, text).
			WithTitle("GraphQL errors").
			WithSummary("GraphQL error: " + first)
		if envelope.Data != nil {
			res.Status = format.StatusSuccess
		}
	case envelope.Data != nil:
		res = format.Success(text).
			WithTitle("GraphQL result").
			WithSummary(format.SummarizeValue(envelope.Data))
	default:
		res = format.Partialf("The query ran but returned no data:\n%s", text)
	}

	res.Meta.StatusCode = rep.StatusCode
	res.Meta.SourceURL = url
	return res
}

// splitQuery separates an endpoint URL from its brace-delimited query
// block, balancing nested braces.
func splitQuery(s string) (url, query string) {
	open := strings.Index(s, "{")
	if open < 0 {
		return strings.TrimSpace(s), ""
	}
	url = strings.TrimSpace(s[:open])

	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return url, s[open : i+1]
			}
		}
	}
	// Unbalanced block: treat as missing
	return url, ""
}
