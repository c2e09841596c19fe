package domain

import "time"

// Category is a topical grouping of news sources.
type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryEconomia      Category = "economia"
	CategoryDeportes      Category = "deportes"
	CategoryTecnologia    Category = "tecnologia"
	CategoryCiencia       Category = "ciencia"
	CategoryPolitica      Category = "politica"
	CategoryInternacional Category = "internacional"
	CategoryCultura       Category = "cultura"
)

// CategoryAll selects every configured category in one ingestion request.
const CategoryAll = "all"

// Source is one configured RSS provider. Every source belongs to exactly
// one category; the registry is immutable for the lifetime of a run.
type Source struct {
	Name     string
	FeedURL  string
	Category Category
}

// FeedItem is one parsed feed entry before it becomes an Article. Items
// are ephemeral and never persisted directly.
type FeedItem struct {
	Title       string
	Link        string
	PublishedAt time.Time
	RawSummary  string
}

// Candidate is a feed item tagged with its originating source and the
// category the fetch cycle requested it for.
type Candidate struct {
	FeedItem
	Source   Source
	Category Category
}

// Article is the persisted entity. URL is unique across the corpus and is
// the dedup key. FetchedAt >= PublishedAt is expected but not enforced
// (feed clocks skew).
type Article struct {
	ID          int64
	Title       string
	URL         string
	Source      string
	Category    Category
	PublishedAt time.Time
	FetchedAt   time.Time
	ImageURL    string
	Summary     string
	Assessment  *Assessment
}

// RunStatus is the outcome of one source during one ingestion cycle.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// IngestRun records one source's outcome for one cycle. History is
// append-only; health and backoff decisions read the latest row per source.
type IngestRun struct {
	Source        string    `json:"source"`
	LastFetch     time.Time `json:"lastFetch"`
	Status        RunStatus `json:"status"`
	ArticlesCount int       `json:"articlesCount"`
}

// PageMetadata holds preview metadata scraped from an article's landing
// page. A zero value is the normal outcome for unreachable pages.
type PageMetadata struct {
	OGImage      string
	TwitterImage string
	Title        string
	Description  string
}

// BestImageURL selects the preview image: og:image first, then
// twitter:image, else empty.
func (m PageMetadata) BestImageURL() string {
	if m.OGImage != "" {
		return m.OGImage
	}
	return m.TwitterImage
}
