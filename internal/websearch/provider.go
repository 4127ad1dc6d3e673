package websearch

import (
	"context"
	"fmt"
)

// Result is a single search result entry.
// URL may be empty when the provider omitted it; such results are
// low-quality but still passed through.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider performs web searches and returns ranked results.
// An empty or whitespace-only query yields an empty result set without
// touching the network.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}

// ConfigError indicates a required search credential is absent.
// It is fatal and must not be retried.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("search config error: %s is missing", e.Missing)
}

// ProviderError indicates a non-success response from the search service.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("search provider error: status %d - %s", e.Status, e.Body)
}
