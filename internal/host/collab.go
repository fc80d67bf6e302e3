// ABOUTME: Non-privileged collaborator interfaces: page fetch, feed parse,
// ABOUTME: and the optional injected pub/sub client.

package host

import "context"

// PageFetcher is the generic page-fetch collaborator used by the feed
// path when no dedicated parser succeeds.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (title, content string, err error)
}

// FeedParser is the dedicated syndication-feed parser collaborator.
// Best-effort: callers must survive an error and fall back to raw content.
type FeedParser interface {
	ParseFeed(ctx context.Context, url, rawContent string, maxItems int) (string, error)
}

// PubSubClient is the optional injected pub/sub client. When present it
// sits between the local cache and the privileged host in the fallback
// chain.
type PubSubClient interface {
	Publish(ctx context.Context, topic, payload string) error
	LastValue(topic string) (string, bool)
}
