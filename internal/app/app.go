// Package app wires configuration into a ready-to-use pipeline.
package app

import (
	"context"
	"fmt"
	"time"

	"askweb/internal/cache"
	"askweb/internal/config"
	"askweb/internal/llm"
	"askweb/internal/logger"
	"askweb/internal/pipeline"
	"askweb/internal/webpage"
	"askweb/internal/websearch"
)

// App holds an assembled pipeline and the resources behind it.
type App struct {
	Pipeline *pipeline.Pipeline
	cache    *cache.PageCache
}

// New builds the pipeline from config: model client, search provider,
// page retriever and, when enabled, the SQLite page cache.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	model, err := llm.NewFromConfig(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	search := websearch.NewTavilyProvider(
		cfg.Search.APIKey,
		cfg.Search.Country,
		cfg.Search.MaxResults,
		time.Duration(cfg.Search.TimeoutSeconds)*time.Second,
	)

	retrieverOpts := []webpage.Option{}
	var pageCache *cache.PageCache
	if cfg.Cache.Enabled {
		pageCache, err = cache.NewPageCache(cfg.Cache.DBPath, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
		if err != nil {
			// The cache is an optimization; run without it.
			logger.Warn("app: page cache unavailable: %v", err)
		} else {
			retrieverOpts = append(retrieverOpts, webpage.WithCache(pageCache))
		}
	}

	opener := webpage.NewRetriever(
		cfg.Fetch.UserAgent,
		cfg.Fetch.MaxChars,
		time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second,
		retrieverOpts...,
	)

	p := pipeline.New(model, search, opener,
		pipeline.WithRateLimitRPS(cfg.Fetch.RateLimitRPS),
		pipeline.WithTopResults(cfg.Search.MaxResults),
	)

	return &App{Pipeline: p, cache: pageCache}, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}
