package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"newsengine/internal/domain"
	"newsengine/internal/ports"
	"newsengine/internal/usecase"
)

// Server is the thin trigger surface over the ingestion engine: start a
// cycle, inspect a source's last run. No auth, no rendering; those live
// in other services.
type Server struct {
	ingestor   *usecase.Ingestor
	enricher   *usecase.Enricher
	scorer     *usecase.Scorer
	repository ports.ArticleRepository
	pageSize   int
	logger     *slog.Logger
}

// NewServer wires the use cases and repository behind a router.
func NewServer(ingestor *usecase.Ingestor, enricher *usecase.Enricher, scorer *usecase.Scorer, repository ports.ArticleRepository, defaultPageSize int, logger *slog.Logger) *Server {
	return &Server{
		ingestor:   ingestor,
		enricher:   enricher,
		scorer:     scorer,
		repository: repository,
		pageSize:   defaultPageSize,
		logger:     logger,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/ingest/{category}", s.handleIngest).Methods(http.MethodPost)
	r.HandleFunc("/api/sources/{source}/last-run", s.handleLastRun).Methods(http.MethodGet)
	r.HandleFunc("/api/articles/enrich", s.handleEnrich).Methods(http.MethodPost)
	r.HandleFunc("/api/articles/score", s.handleScore).Methods(http.MethodPost)
	return r
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]

	pageSize := s.pageSize
	if raw := r.URL.Query().Get("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "pageSize must be a positive integer", http.StatusBadRequest)
			return
		}
		pageSize = parsed
	}

	report, err := s.ingestor.Ingest(r.Context(), category, pageSize)
	if err != nil {
		s.logger.Error("ingest request failed", "category", category, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	source := mux.Vars(r)["source"]

	run, err := s.repository.LastIngestRun(r.Context(), source)
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "no runs recorded for source", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("last run lookup failed", "source", source, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// loadArticle resolves the url query parameter to a persisted article.
func (s *Server) loadArticle(w http.ResponseWriter, r *http.Request) (*domain.Article, bool) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "url query parameter is required", http.StatusBadRequest)
		return nil, false
	}

	article, err := s.repository.FindByURL(r.Context(), url)
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "article not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.logger.Error("article lookup failed", "url", url, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	return article, true
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	article, ok := s.loadArticle(w, r)
	if !ok {
		return
	}

	meta, err := s.enricher.Enrich(r.Context(), *article)
	if errors.Is(err, usecase.ErrInFlight) {
		http.Error(w, "enrichment already in progress", http.StatusConflict)
		return
	}
	if err != nil {
		s.logger.Error("enrich failed", "url", article.URL, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"imageUrl":    meta.BestImageURL(),
		"title":       meta.Title,
		"description": meta.Description,
	})
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	article, ok := s.loadArticle(w, r)
	if !ok {
		return
	}

	verdict, err := s.scorer.Score(r.Context(), *article)
	if errors.Is(err, usecase.ErrInFlight) {
		http.Error(w, "scoring already in progress", http.StatusConflict)
		return
	}
	var rangeErr *domain.ScoreRangeError
	if errors.As(err, &rangeErr) {
		// Bad sub-scores leave the article unscored.
		http.Error(w, rangeErr.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.logger.Error("score failed", "url", article.URL, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
