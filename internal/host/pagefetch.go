// ABOUTME: Default PageFetcher using net/http with a bounded body read.
// ABOUTME: Title comes from the document's <title> tag when present.

package host

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// maxFetchBody caps how much of a fetched page is read.
const maxFetchBody = 256 * 1024

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// HTTPPageFetcher fetches pages with a plain HTTP client. Used as the
// default page-fetch collaborator when the embedding application does
// not supply one.
type HTTPPageFetcher struct {
	Client *http.Client
}

// NewHTTPPageFetcher creates a fetcher with the given timeout.
func NewHTTPPageFetcher(timeout time.Duration) *HTTPPageFetcher {
	return &HTTPPageFetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch retrieves a URL and returns its title and raw content.
func (f *HTTPPageFetcher) Fetch(ctx context.Context, url string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, text/xml, text/html, */*")

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", url, err)
	}

	content := string(body)
	title := url
	if m := titleRe.FindStringSubmatch(content); m != nil {
		title = strings.TrimSpace(m[1])
	}
	return title, content, nil
}
