package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"newsengine/internal/domain"
	"newsengine/internal/ports"
	"newsengine/internal/reliability"
)

// Scorer obtains sub-scores from the analysis collaborator, derives the
// verdict and persists both. Like enrichment it is idempotent and at most
// once in flight per article.
type Scorer struct {
	analysis   ports.AnalysisClient
	engine     *reliability.Engine
	repository ports.ArticleRepository
	logger     *slog.Logger
	inflight   *inflightSet
}

// NewScorer wires the analysis client and the verdict engine.
func NewScorer(analysis ports.AnalysisClient, engine *reliability.Engine, repository ports.ArticleRepository, logger *slog.Logger) *Scorer {
	return &Scorer{
		analysis:   analysis,
		engine:     engine,
		repository: repository,
		logger:     logger,
		inflight:   newInflightSet(),
	}
}

// Score runs the full assessment for one article. A ScoreRangeError from
// the engine leaves the article unscored; the caller decides whether to
// retry after the upstream fixes its output.
func (s *Scorer) Score(ctx context.Context, article domain.Article) (domain.Verdict, error) {
	release, err := s.inflight.acquire(article.ID)
	if err != nil {
		return domain.Verdict{}, err
	}
	defer release()

	assessment, err := s.analysis.Analyze(ctx, article)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("analyze %s: %w", article.URL, err)
	}

	verdict, err := s.engine.Evaluate(assessment)
	if err != nil {
		s.logger.Warn("assessment rejected", "url", article.URL, "error", err)
		return domain.Verdict{}, err
	}

	if err := s.repository.UpdateAssessment(ctx, article.ID, assessment, verdict); err != nil {
		return domain.Verdict{}, fmt.Errorf("store assessment for %s: %w", article.URL, err)
	}

	return verdict, nil
}
