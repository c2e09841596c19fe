package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsengine/internal/domain"
	"newsengine/internal/ports"
)

const defaultTimeout = 10 * time.Second

// Fetcher pulls and parses one RSS/Atom feed per call. Every call
// carries its own timeout so a stalled source cannot hold up siblings;
// failures come back as *domain.FetchFailure values.
type Fetcher struct {
	client  *http.Client
	parser  *gofeed.Parser
	timeout time.Duration
}

var _ ports.FeedFetcher = (*Fetcher)(nil)

// NewFetcher wires an HTTP client; timeout defaults to 10s.
func NewFetcher(client *http.Client, timeout time.Duration) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client:  client,
		parser:  gofeed.NewParser(),
		timeout: timeout,
	}
}

// Fetch returns the source's items in feed order. The fetcher never
// reorders, filters or deduplicates; that is downstream work.
func (f *Fetcher) Fetch(ctx context.Context, source domain.Source) ([]domain.FeedItem, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.FeedURL, nil)
	if err != nil {
		return nil, &domain.FetchFailure{Source: source.Name, Reason: domain.FailureNetwork, Err: err}
	}
	req.Header.Set("User-Agent", "newsengine/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.FetchFailure{Source: source.Name, Reason: domain.FailureNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchFailure{
			Source: source.Name,
			Reason: domain.FailureNetwork,
			Err:    fmt.Errorf("feed returned %s", resp.Status),
		}
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, &domain.FetchFailure{Source: source.Name, Reason: domain.FailureParse, Err: err}
	}

	items := make([]domain.FeedItem, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}

		items = append(items, domain.FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        stripTracking(link),
			PublishedAt: publishedTime(item),
			RawSummary:  strings.TrimSpace(item.Description),
		})
	}

	return items, nil
}

// publishedTime prefers the published timestamp and falls back to the
// updated one; Atom feeds often only carry the latter.
func publishedTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

// stripTracking removes utm query noise so the URL dedup key is stable
// across syndication copies of the same link.
func stripTracking(link string) string {
	if idx := strings.Index(link, "?utm_"); idx > 0 {
		return link[:idx]
	}
	return link
}
