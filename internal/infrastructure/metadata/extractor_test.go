package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsengine/internal/domain"
)

func serve(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtractPrefersOpenGraphImage(t *testing.T) {
	t.Parallel()

	server := serve(t, `<html><head>
		<meta property="og:image" content="https://cdn.example/og.jpg">
		<meta name="twitter:image" content="https://cdn.example/tw.jpg">
		<meta property="og:title" content="La noticia">
		<meta property="og:description" content="Lo que pasó">
	</head><body></body></html>`)

	extractor := NewExtractor(server.Client(), 0)

	meta, err := extractor.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if meta.BestImageURL() != "https://cdn.example/og.jpg" {
		t.Fatalf("expected og:image to win, got %q", meta.BestImageURL())
	}
	if meta.Title != "La noticia" || meta.Description != "Lo que pasó" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestExtractFallsBackToTwitterImage(t *testing.T) {
	t.Parallel()

	server := serve(t, `<html><head>
		<meta name="twitter:image" content="https://cdn.example/tw.jpg">
		<title>Fallback title</title>
	</head><body></body></html>`)

	extractor := NewExtractor(server.Client(), 0)

	meta, err := extractor.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if meta.BestImageURL() != "https://cdn.example/tw.jpg" {
		t.Fatalf("expected twitter:image fallback, got %q", meta.BestImageURL())
	}
	if meta.Title != "Fallback title" {
		t.Fatalf("expected <title> fallback, got %q", meta.Title)
	}
}

func TestExtractNoImages(t *testing.T) {
	t.Parallel()

	server := serve(t, `<html><head><title>plain</title></head><body></body></html>`)

	extractor := NewExtractor(server.Client(), 0)

	meta, err := extractor.Extract(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if meta.BestImageURL() != "" {
		t.Fatalf("expected no image, got %q", meta.BestImageURL())
	}
}

func TestExtractUnreachableURL(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(nil, 0)

	meta, err := extractor.Extract(context.Background(), "http://127.0.0.1:1/nothing")
	if err == nil {
		t.Fatalf("expected error for unreachable host")
	}
	if meta != (domain.PageMetadata{}) {
		t.Fatalf("expected empty metadata on failure, got %+v", meta)
	}
}

func TestExtractRejectsNonHTML(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	extractor := NewExtractor(server.Client(), 0)

	meta, err := extractor.Extract(context.Background(), server.URL)
	if err == nil {
		t.Fatalf("expected error for non-html response")
	}
	if meta != (domain.PageMetadata{}) {
		t.Fatalf("expected empty metadata, got %+v", meta)
	}
}
