// ABOUTME: Gofeed-backed FeedParser handling both RSS 2.0 and Atom.
// ABOUTME: Formats a bounded number of items into voice-friendly text.

package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// GofeedParser is the default dedicated feed parser collaborator.
type GofeedParser struct{}

// ParseFeed parses raw RSS or Atom content and renders up to maxItems
// items. Returns an error on malformed content; callers fall back to
// presenting the raw page.
func (GofeedParser) ParseFeed(_ context.Context, url, rawContent string, maxItems int) (string, error) {
	feed, err := gofeed.NewParser().ParseString(rawContent)
	if err != nil {
		return "", fmt.Errorf("parse feed %s: %w", url, err)
	}

	var b strings.Builder
	title := feed.Title
	if title == "" {
		title = "Untitled feed"
	}
	fmt.Fprintf(&b, "%s", title)
	if feed.Description != "" {
		fmt.Fprintf(&b, " — %s", feed.Description)
	}
	b.WriteString("\n")

	for i, item := range feed.Items {
		if maxItems > 0 && i >= maxItems {
			fmt.Fprintf(&b, "…and %d more items\n", len(feed.Items)-maxItems)
			break
		}
		itemTitle := item.Title
		if itemTitle == "" {
			itemTitle = "Untitled"
		}
		fmt.Fprintf(&b, "• %s", itemTitle)
		if item.Published != "" {
			fmt.Fprintf(&b, " (%s)", item.Published)
		}
		if item.Link != "" {
			fmt.Fprintf(&b, " — %s", item.Link)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
