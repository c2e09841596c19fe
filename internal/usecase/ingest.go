package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newsengine/internal/domain"
	"newsengine/internal/ports"
	"newsengine/internal/registry"
)

// IngestorDeps wires the driven adapters into the orchestrator.
type IngestorDeps struct {
	Fetcher    ports.FeedFetcher
	Repository ports.ArticleRepository
	Registry   *registry.Registry
	Logger     *slog.Logger
	Now        func() time.Time
}

// Ingestor runs ingestion cycles: per-category fan-out, settle-all join,
// dedup, category validation and persistence.
type Ingestor struct {
	fetcher    ports.FeedFetcher
	repository ports.ArticleRepository
	registry   *registry.Registry
	logger     *slog.Logger
	now        func() time.Time
}

// SourceResult is one source's outcome within a report.
type SourceResult struct {
	Source  string               `json:"source"`
	Status  domain.RunStatus     `json:"status"`
	Fetched int                  `json:"fetched"`
	Reason  domain.FailureReason `json:"reason,omitempty"`
}

// IngestReport aggregates one cycle for one category (or all of them).
type IngestReport struct {
	TotalFetched int              `json:"totalFetched"`
	NewArticles  int              `json:"newArticles"`
	Duplicates   int              `json:"duplicates"`
	Rejected     int              `json:"rejected"`
	Status       domain.RunStatus `json:"status"`
	LowDiversity bool             `json:"lowDiversity"`
	PerSource    []SourceResult   `json:"perSourceResults"`
}

// NewIngestor constructs the orchestration component.
func NewIngestor(deps IngestorDeps) *Ingestor {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Ingestor{
		fetcher:    deps.Fetcher,
		repository: deps.Repository,
		registry:   deps.Registry,
		logger:     deps.Logger,
		now:        now,
	}
}

// Ingest runs one cycle for the requested category, or for every
// registered category when asked for "all".
func (in *Ingestor) Ingest(ctx context.Context, category string, targetPageSize int) (IngestReport, error) {
	if targetPageSize < 1 {
		return IngestReport{}, fmt.Errorf("target page size must be positive, got %d", targetPageSize)
	}

	if category == domain.CategoryAll {
		return in.ingestAll(ctx, targetPageSize)
	}

	return in.ingestCategory(ctx, domain.Category(category), targetPageSize)
}

func (in *Ingestor) ingestAll(ctx context.Context, targetPageSize int) (IngestReport, error) {
	var combined IngestReport

	for _, cat := range in.registry.Categories() {
		report, err := in.ingestCategory(ctx, cat, targetPageSize)
		if err != nil {
			return IngestReport{}, err
		}

		combined.TotalFetched += report.TotalFetched
		combined.NewArticles += report.NewArticles
		combined.Duplicates += report.Duplicates
		combined.Rejected += report.Rejected
		combined.PerSource = append(combined.PerSource, report.PerSource...)
	}

	combined.Status = overallStatus(combined.PerSource)
	return combined, nil
}

// fetchOutcome is one source's settled fetch, kept by index so the join
// stays race-free and ordered.
type fetchOutcome struct {
	source domain.Source
	items  []domain.FeedItem
	err    error
}

func (in *Ingestor) ingestCategory(ctx context.Context, cat domain.Category, targetPageSize int) (IngestReport, error) {
	sources, err := in.registry.Sources(cat)
	if err != nil {
		return IngestReport{}, err
	}

	plan, err := Allocate(len(sources), targetPageSize)
	if err != nil {
		return IngestReport{}, err
	}

	outcomes := in.fetchAll(ctx, sources)

	report := IngestReport{PerSource: make([]SourceResult, 0, len(sources))}
	fetchedAt := in.now()

	var candidates []domain.Candidate
	for _, outcome := range outcomes {
		result := in.settleSource(outcome, plan.PerSource)
		report.PerSource = append(report.PerSource, result)

		if outcome.err == nil {
			items := outcome.items
			if len(items) > plan.PerSource {
				items = items[:plan.PerSource]
			}
			for _, item := range items {
				candidates = append(candidates, domain.Candidate{
					FeedItem: item,
					Source:   outcome.source,
					Category: cat,
				})
			}
		}

		run := domain.IngestRun{
			Source:        outcome.source.Name,
			LastFetch:     fetchedAt,
			Status:        result.Status,
			ArticlesCount: result.Fetched,
		}
		if recErr := in.repository.RecordIngestRun(ctx, run); recErr != nil {
			in.logger.Warn("record ingest run", "source", outcome.source.Name, "error", recErr)
		}
	}

	deduped, err := Dedupe(ctx, candidates, in.repository)
	if err != nil {
		return IngestReport{}, fmt.Errorf("dedupe %s: %w", cat, err)
	}

	validated := ValidateCategories(deduped.Accepted, in.registry)

	report.TotalFetched = deduped.TotalFetched
	report.Duplicates = deduped.Duplicates
	report.Rejected = validated.Rejected

	for _, cand := range validated.Accepted {
		article := domain.Article{
			Title:       cand.Title,
			URL:         cand.Link,
			Source:      cand.Source.Name,
			Category:    cand.Category,
			PublishedAt: cand.PublishedAt,
			FetchedAt:   fetchedAt,
			Summary:     cand.RawSummary,
		}

		if _, insErr := in.repository.Insert(ctx, article); insErr != nil {
			if errors.Is(insErr, domain.ErrConflict) {
				// Another cycle persisted the same URL first; same outcome
				// as a corpus duplicate.
				report.Duplicates++
				continue
			}
			in.logger.Error("insert article", "url", cand.Link, "error", insErr)
			continue
		}
		report.NewArticles++
	}

	report.Status = overallStatus(report.PerSource)
	report.LowDiversity = plan.LowDiversity ||
		float64(report.TotalFetched) < lowDiversityRatio*float64(targetPageSize)
	if report.LowDiversity {
		in.logger.Warn("low diversity category", "category", cat, "fetched", report.TotalFetched, "target", targetPageSize)
	}

	in.logger.Info("category ingested",
		"category", cat,
		"status", report.Status,
		"fetched", report.TotalFetched,
		"new", report.NewArticles,
		"duplicates", report.Duplicates,
		"rejected", report.Rejected)

	return report, nil
}

// fetchAll issues every source fetch concurrently and waits for all of
// them to settle. Successes and failures are both collected; a slow or
// broken source only affects its own slot.
func (in *Ingestor) fetchAll(ctx context.Context, sources []domain.Source) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src domain.Source) {
			defer wg.Done()
			items, err := in.fetcher.Fetch(ctx, src)
			outcomes[i] = fetchOutcome{source: src, items: items, err: err}
		}(i, src)
	}
	wg.Wait()

	return outcomes
}

func (in *Ingestor) settleSource(outcome fetchOutcome, quota int) SourceResult {
	if outcome.err != nil {
		result := SourceResult{Source: outcome.source.Name, Status: domain.RunFailed}
		var failure *domain.FetchFailure
		if errors.As(outcome.err, &failure) {
			result.Reason = failure.Reason
		} else {
			result.Reason = domain.FailureNetwork
		}
		in.logger.Warn("source fetch failed", "source", outcome.source.Name, "reason", result.Reason, "error", outcome.err)
		return result
	}

	fetched := len(outcome.items)
	if fetched > quota {
		fetched = quota
	}

	status := domain.RunSuccess
	if fetched < quota {
		status = domain.RunPartial
	}

	return SourceResult{Source: outcome.source.Name, Status: status, Fetched: fetched}
}

// overallStatus folds per-source outcomes into the cycle status: failed
// only when every source failed, success only when none did.
func overallStatus(results []SourceResult) domain.RunStatus {
	if len(results) == 0 {
		return domain.RunFailed
	}

	failed := 0
	for _, r := range results {
		if r.Status == domain.RunFailed {
			failed++
		}
	}

	switch failed {
	case 0:
		return domain.RunSuccess
	case len(results):
		return domain.RunFailed
	default:
		return domain.RunPartial
	}
}
