package usecase

import (
	"context"
	"sync"

	"newsengine/internal/domain"
)

// fakeRepository is an in-memory ArticleRepository for orchestration
// tests. Inserts enforce URL uniqueness the way Postgres would.
type fakeRepository struct {
	mu       sync.Mutex
	articles map[string]*domain.Article
	runs     []domain.IngestRun
	metadata map[int64]domain.PageMetadata
	verdicts map[int64]domain.Verdict
	nextID   int64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		articles: map[string]*domain.Article{},
		metadata: map[int64]domain.PageMetadata{},
		verdicts: map[int64]domain.Verdict{},
	}
}

func (r *fakeRepository) FindByURL(_ context.Context, url string) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if art, ok := r.articles[url]; ok {
		copied := *art
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepository) Insert(_ context.Context, article domain.Article) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.articles[article.URL]; ok {
		return nil, domain.ErrConflict
	}

	r.nextID++
	article.ID = r.nextID
	r.articles[article.URL] = &article

	copied := article
	return &copied, nil
}

func (r *fakeRepository) UpdateMetadata(_ context.Context, id int64, meta domain.PageMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata[id] = meta
	return nil
}

func (r *fakeRepository) UpdateAssessment(_ context.Context, id int64, _ domain.Assessment, verdict domain.Verdict) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdicts[id] = verdict
	return nil
}

func (r *fakeRepository) RecordIngestRun(_ context.Context, run domain.IngestRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *fakeRepository) LastIngestRun(_ context.Context, source string) (*domain.IngestRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].Source == source {
			run := r.runs[i]
			return &run, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepository) runsFor(source string) []domain.IngestRun {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.IngestRun
	for _, run := range r.runs {
		if run.Source == source {
			out = append(out, run)
		}
	}
	return out
}

// fakeFetcher serves canned items or failures per source name.
type fakeFetcher struct {
	items    map[string][]domain.FeedItem
	failures map[string]*domain.FetchFailure
}

func (f *fakeFetcher) Fetch(_ context.Context, source domain.Source) ([]domain.FeedItem, error) {
	if failure, ok := f.failures[source.Name]; ok {
		return nil, failure
	}
	return f.items[source.Name], nil
}
