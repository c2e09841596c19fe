package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"newsengine/internal/config"
	"newsengine/internal/domain"
	"newsengine/internal/registry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func feedItems(source string, n int, start time.Time) []domain.FeedItem {
	items := make([]domain.FeedItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.FeedItem{
			Title:       fmt.Sprintf("%s story %d", source, i),
			Link:        fmt.Sprintf("https://%s.example/articles/%d", source, i),
			PublishedAt: start.Add(-time.Duration(i) * time.Hour),
		})
	}
	return items
}

func TestIngestPartialCycle(t *testing.T) {
	t.Parallel()

	sources := make([]config.SourceConfig, 0, 8)
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("src%d", i)
		sources = append(sources, config.SourceConfig{Name: name, URL: "https://" + name + ".example/rss"})
	}

	reg, err := registry.New([]config.CategoryConfig{{Name: "general", Sources: sources}})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	now := time.Now()
	fetcher := &fakeFetcher{
		items:    map[string][]domain.FeedItem{},
		failures: map[string]*domain.FetchFailure{},
	}
	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("src%d", i)
		fetcher.items[name] = feedItems(name, 5, now)
	}
	fetcher.failures["src6"] = &domain.FetchFailure{Source: "src6", Reason: domain.FailureNetwork, Err: errors.New("timeout")}
	fetcher.failures["src7"] = &domain.FetchFailure{Source: "src7", Reason: domain.FailureParse, Err: errors.New("bad xml")}

	repo := newFakeRepository()
	ing := NewIngestor(IngestorDeps{
		Fetcher:    fetcher,
		Repository: repo,
		Registry:   reg,
		Logger:     discardLogger(),
	})

	report, err := ing.Ingest(context.Background(), "general", 20)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	if report.Status != domain.RunPartial {
		t.Fatalf("expected partial status, got %s", report.Status)
	}
	if report.NewArticles == 0 {
		t.Fatalf("expected new articles despite failed sources")
	}

	// Quota for 8 sources at page size 20 is 3: six healthy sources
	// truncated to 3 each.
	if report.TotalFetched != 18 {
		t.Fatalf("expected 18 fetched after truncation, got %d", report.TotalFetched)
	}

	var failedRuns int
	for _, run := range repo.runs {
		if run.Status == domain.RunFailed {
			failedRuns++
		}
	}
	if failedRuns != 2 {
		t.Fatalf("expected exactly 2 failed run records, got %d", failedRuns)
	}
	if len(repo.runs) != 8 {
		t.Fatalf("expected one run record per source, got %d", len(repo.runs))
	}

	for _, name := range []string{"src6", "src7"} {
		last, err := repo.LastIngestRun(context.Background(), name)
		if err != nil {
			t.Fatalf("last run for %s: %v", name, err)
		}
		if last.Status != domain.RunFailed || last.ArticlesCount != 0 {
			t.Fatalf("unexpected last run for %s: %+v", name, last)
		}
	}
}

func TestIngestAllSourcesFail(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]config.CategoryConfig{{Name: "ciencia", Sources: []config.SourceConfig{
		{Name: "a", URL: "https://a.example/rss"},
		{Name: "b", URL: "https://b.example/rss"},
	}}})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	fetcher := &fakeFetcher{failures: map[string]*domain.FetchFailure{
		"a": {Source: "a", Reason: domain.FailureNetwork, Err: errors.New("down")},
		"b": {Source: "b", Reason: domain.FailureNetwork, Err: errors.New("down")},
	}}

	ing := NewIngestor(IngestorDeps{
		Fetcher:    fetcher,
		Repository: newFakeRepository(),
		Registry:   reg,
		Logger:     discardLogger(),
	})

	report, err := ing.Ingest(context.Background(), "ciencia", 20)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}
	if report.Status != domain.RunFailed {
		t.Fatalf("expected failed status when every source fails, got %s", report.Status)
	}
	if report.NewArticles != 0 || report.TotalFetched != 0 {
		t.Fatalf("unexpected counts on total failure: %+v", report)
	}
}

func TestIngestPerSourceStatuses(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]config.CategoryConfig{{Name: "economia", Sources: []config.SourceConfig{
		{Name: "full", URL: "https://full.example/rss"},
		{Name: "short", URL: "https://short.example/rss"},
	}}})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	now := time.Now()
	fetcher := &fakeFetcher{items: map[string][]domain.FeedItem{
		"full":  feedItems("full", 12, now),
		"short": feedItems("short", 3, now),
	}}

	ing := NewIngestor(IngestorDeps{
		Fetcher:    fetcher,
		Repository: newFakeRepository(),
		Registry:   reg,
		Logger:     discardLogger(),
	})

	// Quota for 2 sources over 20 is 10 each.
	report, err := ing.Ingest(context.Background(), "economia", 20)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	statuses := map[string]domain.RunStatus{}
	fetched := map[string]int{}
	for _, r := range report.PerSource {
		statuses[r.Source] = r.Status
		fetched[r.Source] = r.Fetched
	}

	if statuses["full"] != domain.RunSuccess || fetched["full"] != 10 {
		t.Fatalf("full source should hit quota: %+v", report.PerSource)
	}
	if statuses["short"] != domain.RunPartial || fetched["short"] != 3 {
		t.Fatalf("under-quota source should be partial: %+v", report.PerSource)
	}
	if report.Status != domain.RunSuccess {
		t.Fatalf("no source failed, cycle should be success, got %s", report.Status)
	}
}

func TestIngestConflictBecomesDuplicate(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]config.CategoryConfig{{Name: "general", Sources: []config.SourceConfig{
		{Name: "elpais", URL: "https://elpais.example/rss"},
	}}})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	now := time.Now()
	repo := newFakeRepository()
	fetcher := &fakeFetcher{items: map[string][]domain.FeedItem{
		"elpais": feedItems("elpais", 4, now),
	}}

	ing := NewIngestor(IngestorDeps{Fetcher: fetcher, Repository: repo, Registry: reg, Logger: discardLogger()})

	first, err := ing.Ingest(context.Background(), "general", 20)
	if err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if first.NewArticles != 4 || first.Duplicates != 0 {
		t.Fatalf("unexpected first cycle: %+v", first)
	}

	second, err := ing.Ingest(context.Background(), "general", 20)
	if err != nil {
		t.Fatalf("second cycle: %v", err)
	}
	if second.NewArticles != 0 {
		t.Fatalf("second cycle persisted %d articles", second.NewArticles)
	}
	if second.Duplicates != 4 {
		t.Fatalf("expected 4 duplicates on rerun, got %d", second.Duplicates)
	}
}

func TestIngestAllCategories(t *testing.T) {
	t.Parallel()

	reg, err := registry.New([]config.CategoryConfig{
		{Name: "general", Sources: []config.SourceConfig{{Name: "elpais", URL: "https://elpais.example/rss"}}},
		{Name: "deportes", Sources: []config.SourceConfig{{Name: "marca", URL: "https://marca.example/rss"}}},
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	now := time.Now()
	fetcher := &fakeFetcher{items: map[string][]domain.FeedItem{
		"elpais": feedItems("elpais", 2, now),
		"marca":  feedItems("marca", 2, now),
	}}

	repo := newFakeRepository()
	ing := NewIngestor(IngestorDeps{Fetcher: fetcher, Repository: repo, Registry: reg, Logger: discardLogger()})

	report, err := ing.Ingest(context.Background(), domain.CategoryAll, 20)
	if err != nil {
		t.Fatalf("Ingest all: %v", err)
	}

	if report.NewArticles != 4 {
		t.Fatalf("expected 4 articles across categories, got %d", report.NewArticles)
	}
	if len(report.PerSource) != 2 {
		t.Fatalf("expected 2 per-source results, got %d", len(report.PerSource))
	}

	marca, err := repo.FindByURL(context.Background(), "https://marca.example/articles/0")
	if err != nil {
		t.Fatalf("find marca article: %v", err)
	}
	if marca.Category != domain.CategoryDeportes {
		t.Fatalf("article stored under %s, want deportes", marca.Category)
	}
}

func TestIngestRejectsBadPageSize(t *testing.T) {
	t.Parallel()

	reg := testRegistry(t)
	ing := NewIngestor(IngestorDeps{Fetcher: &fakeFetcher{}, Repository: newFakeRepository(), Registry: reg, Logger: discardLogger()})

	if _, err := ing.Ingest(context.Background(), "general", 0); err == nil {
		t.Fatalf("expected error for zero page size")
	}
}
