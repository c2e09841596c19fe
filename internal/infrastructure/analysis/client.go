package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsengine/internal/config"
	"newsengine/internal/domain"
	"newsengine/internal/ports"
)

// Client talks to the external analysis service that computes the raw
// sub-scores (bias, traceability, clickbait, factuality). The reliability
// engine consumes its output; no inference happens in this process.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.AnalysisClient = (*Client)(nil)

// NewClient builds a reusable HTTP client from configuration.
func NewClient(cfg config.AnalysisConfig) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// Analyze submits the article and returns its assessment.
func (c *Client) Analyze(ctx context.Context, article domain.Article) (domain.Assessment, error) {
	payload := map[string]any{
		"url":     article.URL,
		"title":   article.Title,
		"source":  article.Source,
		"summary": article.Summary,
	}

	var assessment domain.Assessment
	if err := c.post(ctx, "/assess", payload, &assessment); err != nil {
		return domain.Assessment{}, err
	}

	return assessment, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("analysis error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
