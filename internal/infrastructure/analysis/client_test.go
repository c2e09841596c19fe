package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsengine/internal/config"
	"newsengine/internal/domain"
)

func TestAnalyzeDecodesAssessment(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assess" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("missing bearer auth, got %q", got)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["url"] != "https://news.example/a" {
			t.Errorf("unexpected payload url: %v", payload["url"])
		}

		_ = json.NewEncoder(w).Encode(domain.Assessment{
			Score:             64,
			BiasScore:         30,
			TraceabilityScore: 55,
			ClickbaitScore:    20,
			FactualityStatus:  domain.FactualityPlausible,
			ShouldEscalate:    true,
		})
	}))
	defer server.Close()

	client := NewClient(config.AnalysisConfig{Endpoint: server.URL, APIKey: "secret"})
	client.http = server.Client()

	assessment, err := client.Analyze(context.Background(), domain.Article{
		URL:    "https://news.example/a",
		Title:  "Titular",
		Source: "elpais",
	})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if assessment.Score != 64 || !assessment.ShouldEscalate {
		t.Fatalf("unexpected assessment: %+v", assessment)
	}
	if assessment.FactualityStatus != domain.FactualityPlausible {
		t.Fatalf("unexpected factuality: %s", assessment.FactualityStatus)
	}
}

func TestAnalyzeSurfacesServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(config.AnalysisConfig{Endpoint: server.URL})
	client.http = server.Client()

	if _, err := client.Analyze(context.Background(), domain.Article{URL: "https://news.example/a"}); err == nil {
		t.Fatalf("expected error on 503")
	}
}
