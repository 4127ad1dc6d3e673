// Package pipeline answers natural-language questions, deciding per
// query whether web retrieval is needed and degrading gracefully when
// search or page fetches fail.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"askweb/internal/llm"
	"askweb/internal/logger"
)

const defaultRateLimitRPS = 4

// Pipeline is the full ask flow: route, optionally retrieve, compose.
type Pipeline struct {
	router       *Router
	orchestrator *Orchestrator
	composer     *Composer
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	rps        float64
	topResults int
}

// WithRateLimitRPS bounds outbound page fetches per second.
func WithRateLimitRPS(rps float64) Option {
	return func(o *options) { o.rps = rps }
}

// WithTopResults sets how many search results are retrieved per query.
func WithTopResults(n int) Option {
	return func(o *options) { o.topResults = n }
}

// New assembles a pipeline from a model, a search provider and a page
// opener.
func New(model llm.Client, search Searcher, opener Opener, opts ...Option) *Pipeline {
	o := options{rps: defaultRateLimitRPS, topResults: defaultTopResults}
	for _, opt := range opts {
		opt(&o)
	}
	summarizer := NewSummarizer(model)
	return &Pipeline{
		router:       NewRouter(model),
		orchestrator: NewOrchestrator(search, opener, summarizer, o.rps, o.topResults),
		composer:     NewComposer(model),
	}
}

// Run answers a single query end to end.
func (p *Pipeline) Run(ctx context.Context, query string) (*Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("empty query")
	}

	route, err := p.router.Route(ctx, query)
	if err != nil {
		return nil, err
	}
	if route == RouteDirect {
		logger.Info("pipeline: answering %q directly", query)
		return p.composer.Compose(ctx, query, nil, FallbackNone)
	}

	logger.Info("pipeline: answering %q via web retrieval", query)
	retrieval, err := p.orchestrator.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	return p.composer.Compose(ctx, query, retrieval.Summaries, retrieval.Fallback)
}
