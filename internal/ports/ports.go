package ports

import (
	"context"

	"newsengine/internal/domain"
)

// FeedFetcher pulls fresh items from one RSS source. Failures are
// classified as *domain.FetchFailure values so one slow or broken source
// never aborts its siblings.
type FeedFetcher interface {
	Fetch(ctx context.Context, source domain.Source) ([]domain.FeedItem, error)
}

// ArticleRepository persists articles and per-source run history.
type ArticleRepository interface {
	FindByURL(ctx context.Context, url string) (*domain.Article, error)
	Insert(ctx context.Context, article domain.Article) (*domain.Article, error)
	UpdateMetadata(ctx context.Context, id int64, meta domain.PageMetadata) error
	UpdateAssessment(ctx context.Context, id int64, assessment domain.Assessment, verdict domain.Verdict) error
	RecordIngestRun(ctx context.Context, run domain.IngestRun) error
	LastIngestRun(ctx context.Context, source string) (*domain.IngestRun, error)
}

// MetadataExtractor fetches an article's landing page and pulls preview
// metadata out of it.
type MetadataExtractor interface {
	Extract(ctx context.Context, url string) (domain.PageMetadata, error)
}

// AnalysisClient obtains the externally computed sub-scores for one
// article. The engine consumes these; it never computes inference.
type AnalysisClient interface {
	Analyze(ctx context.Context, article domain.Article) (domain.Assessment, error)
}

// Scheduler controls when full ingestion cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func()) error
	Stop(ctx context.Context) error
}
