// ABOUTME: Syndication-feed adapter for the RSS and Atom families.
// ABOUTME: Fetch via the page collaborator; parsing is best-effort.

package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/wronai/broxeen-sub001/internal/format"
	"github.com/wronai/broxeen-sub001/internal/ledger"
	"github.com/wronai/broxeen-sub001/internal/protocol"
)

// maxFeedItems caps how many items a feed read renders.
const maxFeedItems = 5

// feedAdapter serves one syndication family; rss and atom each get an
// instance so headings and suggestions stay family-specific.
type feedAdapter struct {
	deps  *Deps
	proto protocol.Protocol
}

func (a *feedAdapter) Protocol() protocol.Protocol { return a.proto }

// Read fetches the feed page and tries the dedicated parser. Parser
// failure is not a failure of the read: the raw fetched content is
// presented under a generic heading instead.
func (a *feedAdapter) Read(ctx context.Context, url string) *format.Result {
	if strings.TrimSpace(url) == "" {
		return format.Errorf("A feed URL is required. Try: bridge %s https://example.com/feed.xml", a.proto)
	}

	title, content, err := a.deps.Pages.Fetch(ctx, url)
	if err != nil {
		return format.Errorf(
			"Could not fetch %s (%v).\nTry: bridge %s %s once the feed is reachable",
			url, err, a.proto, url)
	}
	a.deps.record(ctx, a.proto, ledger.Received, url, content)

	formatted, perr := a.deps.Feeds.ParseFeed(ctx, url, content, maxFeedItems)
	if perr != nil {
		a.deps.Logger.Warn("feed parse failed, presenting raw content",
			"url", url, "error", perr)
		res := format.Successf("%s\n%s", title, format.Snippet(content, ledger.MaxPayload)).
			WithTitle("Feed content").
			WithSummary(fmt.Sprintf("Fetched %s, but it did not parse as a feed", title))
		res.Meta.SourceURL = url
		res.Meta.Truncated = len(content) > ledger.MaxPayload
		return res
	}

	heading := "RSS feed"
	if a.proto == protocol.Atom {
		heading = "Atom feed"
	}
	res := format.Success(formatted).
		WithTitle(heading).
		WithSummary(firstLine(formatted))
	res.Meta.SourceURL = url
	return res
}

// Send is rejected: feeds are read-only.
func (a *feedAdapter) Send(context.Context, string, string) *format.Result {
	return readOnly(a.proto)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
