package metadata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsengine/internal/domain"
	"newsengine/internal/ports"
)

const defaultTimeout = 10 * time.Second

// Extractor scrapes preview metadata (Open Graph / Twitter card tags)
// from an article's landing page. Extraction is read-only and idempotent:
// re-running it yields the same result modulo upstream page changes.
type Extractor struct {
	client  *http.Client
	timeout time.Duration
}

var _ ports.MetadataExtractor = (*Extractor)(nil)

// NewExtractor wires an HTTP client; timeout defaults to 10s.
func NewExtractor(client *http.Client, timeout time.Duration) *Extractor {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Extractor{client: client, timeout: timeout}
}

// Extract fetches the page and pulls og:/twitter: meta tags. The error
// is informational: callers that only care about the preview treat any
// failure as "no metadata".
func (e *Extractor) Extract(ctx context.Context, pageURL string) (domain.PageMetadata, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "newsengine/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.PageMetadata{}, fmt.Errorf("page returned %s", resp.Status)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return domain.PageMetadata{}, fmt.Errorf("not an html page: %s", ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.PageMetadata{}, fmt.Errorf("parse page: %w", err)
	}

	meta := domain.PageMetadata{
		OGImage:      metaContent(doc, `meta[property="og:image"]`),
		TwitterImage: metaContent(doc, `meta[name="twitter:image"]`),
		Title:        metaContent(doc, `meta[property="og:title"]`),
		Description:  metaContent(doc, `meta[property="og:description"]`),
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if meta.Description == "" {
		meta.Description = metaContent(doc, `meta[name="description"]`)
	}

	return meta, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
