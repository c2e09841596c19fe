package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"newsengine/internal/domain"
	"newsengine/internal/ports"
)

// Enricher lazily annotates persisted articles with landing-page
// metadata. It is idempotent per URL and runs at most once concurrently
// per article.
type Enricher struct {
	extractor  ports.MetadataExtractor
	repository ports.ArticleRepository
	logger     *slog.Logger
	inflight   *inflightSet
}

// NewEnricher wires the page extractor and the repository.
func NewEnricher(extractor ports.MetadataExtractor, repository ports.ArticleRepository, logger *slog.Logger) *Enricher {
	return &Enricher{
		extractor:  extractor,
		repository: repository,
		logger:     logger,
		inflight:   newInflightSet(),
	}
}

// Enrich fetches the article's landing page and stores whatever preview
// metadata it yields. An unreachable or non-HTML page is a normal
// outcome: the article simply keeps no image, and no error surfaces.
func (e *Enricher) Enrich(ctx context.Context, article domain.Article) (domain.PageMetadata, error) {
	release, err := e.inflight.acquire(article.ID)
	if err != nil {
		return domain.PageMetadata{}, err
	}
	defer release()

	meta, err := e.extractor.Extract(ctx, article.URL)
	if err != nil {
		e.logger.Debug("metadata extraction failed", "url", article.URL, "error", err)
		meta = domain.PageMetadata{}
	}

	if err := e.repository.UpdateMetadata(ctx, article.ID, meta); err != nil {
		return domain.PageMetadata{}, fmt.Errorf("store metadata for %s: %w", article.URL, err)
	}

	return meta, nil
}
