// Package firecrawl implementa ai.Searcher con la API de búsqueda de Firecrawl.
package firecrawl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"patientpal/internal/platform/httpclient"
	"patientpal/internal/ports/ai"
)

var (
	ErrFirecrawlNotConfigured = fmt.Errorf("firecrawl: %w", ai.ErrNotConfigured)
	ErrFirecrawlUnauthorized  = fmt.Errorf("firecrawl: %w", ai.ErrUnauthorized)
	ErrFirecrawlRateLimited   = fmt.Errorf("firecrawl: %w", ai.ErrRateLimited)
	ErrFirecrawlUpstream      = fmt.Errorf("firecrawl: %w", ai.ErrUpstream)
)

const (
	DefaultBaseURL = "https://api.firecrawl.dev"

	searchPath = "/v1/search"
	maxLimit   = 10
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	apiKey string
	http   *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("firecrawl: %w", err)
	}
	c := &Client{apiKey: strings.TrimSpace(cfg.APIKey), http: hc}
	hc.Headers = map[string]string{"Authorization": "Bearer " + c.apiKey}
	return c, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

type scrapeOptions struct {
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type searchRequest struct {
	Query         string        `json:"query"`
	Limit         int           `json:"limit"`
	ScrapeOptions scrapeOptions `json:"scrapeOptions"`
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Markdown    string `json:"markdown"`
	} `json:"data"`
	Error string `json:"error"`
}

// Search busca y scrapea (markdown) los primeros limit resultados.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]ai.Document, error) {
	if !c.IsConfigured() {
		return nil, ErrFirecrawlNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []ai.Document{}, nil
	}
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	req := searchRequest{
		Query: query,
		Limit: limit,
		ScrapeOptions: scrapeOptions{
			Formats:         []string{"markdown"},
			OnlyMainContent: true,
		},
	}

	var out searchResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, searchPath, nil, req, &out); err != nil {
		return nil, mapErr(err)
	}
	if !out.Success {
		return nil, fmt.Errorf("%w: %s", ErrFirecrawlUpstream, strings.TrimSpace(out.Error))
	}

	docs := make([]ai.Document, 0, len(out.Data))
	for _, d := range out.Data {
		if strings.TrimSpace(d.URL) == "" {
			continue
		}
		content := strings.TrimSpace(d.Markdown)
		if content == "" {
			content = strings.TrimSpace(d.Description)
		}
		docs = append(docs, ai.Document{
			Title:   strings.TrimSpace(d.Title),
			URL:     strings.TrimSpace(d.URL),
			Content: content,
		})
	}
	return docs, nil
}

func mapErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrFirecrawlUpstream, err)
	}
	st, _ := httpclient.StatusOf(err)
	switch st {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusPaymentRequired:
		return fmt.Errorf("%w: %v", ErrFirecrawlUnauthorized, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrFirecrawlRateLimited, err)
	default:
		return fmt.Errorf("%w: %v", ErrFirecrawlUpstream, err)
	}
}
