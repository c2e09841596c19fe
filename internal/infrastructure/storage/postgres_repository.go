package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"newsengine/internal/domain"
	"newsengine/internal/ports"
)

// Postgres unique_violation.
const uniqueViolationCode = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists articles and ingest-run history.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindByURL loads one article by its unique URL.
func (r *PostgresRepository) FindByURL(ctx context.Context, url string) (*domain.Article, error) {
	query, args, err := psql.
		Select("id", "title", "url", "source", "category", "published_at", "fetched_at",
			"coalesce(image_url, '')", "coalesce(summary, '')").
		From("articles").
		Where(sq.Eq{"url": url}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var art domain.Article
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&art.ID, &art.Title, &art.URL, &art.Source, &art.Category,
		&art.PublishedAt, &art.FetchedAt, &art.ImageURL, &art.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan article: %w", err)
	}

	return &art, nil
}

// Insert persists a new article. A URL collision comes back as
// domain.ErrConflict so concurrent cycles can reclassify it as a
// duplicate instead of failing.
func (r *PostgresRepository) Insert(ctx context.Context, article domain.Article) (*domain.Article, error) {
	query, args, err := psql.
		Insert("articles").
		Columns("title", "url", "source", "category", "published_at", "fetched_at", "summary").
		Values(article.Title, article.URL, article.Source, article.Category,
			article.PublishedAt, article.FetchedAt, article.Summary).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&article.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("insert article: %w", err)
	}

	return &article, nil
}

// UpdateMetadata stores the enrichment result. Writing an empty result is
// valid: it records that enrichment ran and found nothing.
func (r *PostgresRepository) UpdateMetadata(ctx context.Context, id int64, meta domain.PageMetadata) error {
	query, args, err := psql.
		Update("articles").
		Set("image_url", meta.BestImageURL()).
		Set("description", meta.Description).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}

	return nil
}

// UpdateAssessment stores the sub-scores and the derived verdict.
func (r *PostgresRepository) UpdateAssessment(ctx context.Context, id int64, a domain.Assessment, verdict domain.Verdict) error {
	query, args, err := psql.
		Update("articles").
		Set("score", a.Score).
		Set("bias_score", a.BiasScore).
		Set("traceability_score", a.TraceabilityScore).
		Set("clickbait_score", a.ClickbaitScore).
		Set("factuality_status", a.FactualityStatus).
		Set("should_escalate", a.ShouldEscalate).
		Set("verdict_label", verdict.Label).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update assessment: %w", err)
	}

	return nil
}

// RecordIngestRun appends one run row; history is never rewritten.
func (r *PostgresRepository) RecordIngestRun(ctx context.Context, run domain.IngestRun) error {
	query, args, err := psql.
		Insert("ingest_runs").
		Columns("source", "last_fetch", "status", "articles_count").
		Values(run.Source, run.LastFetch, run.Status, run.ArticlesCount).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record ingest run: %w", err)
	}

	return nil
}

// LastIngestRun returns the most recent run for a source.
func (r *PostgresRepository) LastIngestRun(ctx context.Context, source string) (*domain.IngestRun, error) {
	query, args, err := psql.
		Select("source", "last_fetch", "status", "articles_count").
		From("ingest_runs").
		Where(sq.Eq{"source": source}).
		OrderBy("last_fetch DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var run domain.IngestRun
	row := r.db.QueryRowContext(ctx, query, args...)
	err = row.Scan(&run.Source, &run.LastFetch, &run.Status, &run.ArticlesCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan ingest run: %w", err)
	}

	return &run, nil
}
