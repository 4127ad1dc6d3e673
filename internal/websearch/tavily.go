package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTavilyURL = "https://api.tavily.com/search"

// TavilyProvider calls the Tavily search API.
type TavilyProvider struct {
	apiKey     string
	baseURL    string
	country    string
	maxResults int
	client     *http.Client
}

// NewTavilyProvider constructs a Tavily search provider.
func NewTavilyProvider(apiKey, country string, maxResults int, timeout time.Duration) *TavilyProvider {
	if maxResults <= 0 {
		maxResults = 5
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TavilyProvider{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultTavilyURL,
		country:    strings.TrimSpace(country),
		maxResults: maxResults,
		client:     &http.Client{Timeout: timeout},
	}
}

// NewTavilyProviderURL constructs a Tavily provider against a custom endpoint.
// Useful for tests.
func NewTavilyProviderURL(apiKey, country string, maxResults int, baseURL string, client *http.Client) *TavilyProvider {
	p := NewTavilyProvider(apiKey, country, maxResults, 0)
	if strings.TrimSpace(baseURL) != "" {
		p.baseURL = baseURL
	}
	if client != nil {
		p.client = client
	}
	return p
}

func (p *TavilyProvider) Name() string {
	return "tavily"
}

type tavilyRequest struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
	IncludeImages bool   `json:"include_images"`
	Country       string `json:"country,omitempty"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

// Search posts a query to Tavily and returns coerced results.
func (p *TavilyProvider) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Result{}, nil
	}

	if p.apiKey == "" {
		return nil, &ConfigError{Missing: "TAVILY_API_KEY"}
	}

	payload, err := json.Marshal(tavilyRequest{
		Query:         query,
		SearchDepth:   "basic",
		MaxResults:    p.maxResults,
		IncludeAnswer: false,
		IncludeImages: false,
		Country:       p.country,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Status: resp.StatusCode, Body: safeBody(resp.Body)}
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]Result, 0, p.maxResults)
	for _, r := range parsed.Results {
		if len(results) >= p.maxResults {
			break
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = "Untitled"
		}
		results = append(results, Result{
			Title:   title,
			URL:     strings.TrimSpace(r.URL),
			Snippet: strings.TrimSpace(r.Content),
		})
	}
	return results, nil
}

// safeBody drains a best-effort error body for diagnostics.
func safeBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 2048))
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		return "<no body>"
	}
	return string(body)
}
