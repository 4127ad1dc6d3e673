package pipeline

import (
	"context"

	"askweb/internal/webpage"
	"askweb/internal/websearch"
)

// Route is the decision of whether a query needs live web information.
type Route string

const (
	RouteWeb    Route = "web"
	RouteDirect Route = "direct"
)

// FallbackMode records which degradation tier produced the summaries.
type FallbackMode string

const (
	// FallbackNone: at least one page was fetched and summarized.
	FallbackNone FallbackMode = "none"
	// FallbackSnippets: every fetch or summarize failed; summaries were
	// synthesized from search snippets instead.
	FallbackSnippets FallbackMode = "snippets"
	// FallbackNoResults: the search itself returned nothing.
	FallbackNoResults FallbackMode = "no-results"
)

// PageSummary is a digest of one retrieved page.
type PageSummary struct {
	URL     string `json:"url"`
	Summary string `json:"summary"`
}

// Retrieval is the outcome of the search-and-summarize stage.
type Retrieval struct {
	Summaries []PageSummary
	Fallback  FallbackMode
}

// Candidate is the final structured answer of one pipeline run.
type Candidate struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Mode    Route    `json:"mode"`
}

// Searcher issues one web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]websearch.Result, error)
}

// Opener fetches one page as bounded plain text.
type Opener interface {
	Open(ctx context.Context, url string) (webpage.Content, error)
}

// ModelError indicates a failed text-generation call.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return "model call failed: " + e.Err.Error()
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
