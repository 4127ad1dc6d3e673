package pipeline

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"askweb/internal/logger"
	"askweb/internal/websearch"
)

const defaultTopResults = 5

// Orchestrator runs the web retrieval stage: search, then fetch and
// summarize the top results concurrently. One bad page never takes the
// others down; its slot is simply dropped.
type Orchestrator struct {
	search     Searcher
	opener     Opener
	summarizer *Summarizer
	limiter    *rate.Limiter
	topResults int
}

// NewOrchestrator creates an orchestrator over the given search provider,
// page opener and summarizer. rps bounds outbound page fetches; n is how
// many search results are retrieved.
func NewOrchestrator(search Searcher, opener Opener, summarizer *Summarizer, rps float64, n int) *Orchestrator {
	if n <= 0 {
		n = defaultTopResults
	}
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Orchestrator{
		search:     search,
		opener:     opener,
		summarizer: summarizer,
		limiter:    limiter,
		topResults: n,
	}
}

// Retrieve searches for the query and summarizes the top result pages.
// A search failure is fatal; per-page failures are logged and skipped.
// When every page fails, search snippets stand in for summaries.
func (o *Orchestrator) Retrieve(ctx context.Context, query string) (*Retrieval, error) {
	results, err := o.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		logger.Info("retrieve: no search results for %q", query)
		return &Retrieval{Fallback: FallbackNoResults}, nil
	}
	if len(results) > o.topResults {
		results = results[:o.topResults]
	}

	// Indexed slots keep summaries in search rank order regardless of
	// completion order.
	summaries := make([]*PageSummary, len(results))

	g, gctx := errgroup.WithContext(ctx)
	for i, res := range results {
		g.Go(func() error {
			if o.limiter != nil {
				if err := o.limiter.Wait(gctx); err != nil {
					return nil
				}
			}
			content, err := o.opener.Open(gctx, res.URL)
			if err != nil {
				logger.Warn("retrieve: fetch %s failed: %v", res.URL, err)
				return nil
			}
			summary, err := o.summarizer.Summarize(gctx, content.Text)
			if err != nil {
				logger.Warn("retrieve: summarize %s failed: %v", res.URL, err)
				return nil
			}
			if summary == "" {
				return nil
			}
			summaries[i] = &PageSummary{URL: res.URL, Summary: summary}
			return nil
		})
	}
	// Goroutines only ever return nil; Wait is for completion.
	_ = g.Wait()

	kept := make([]PageSummary, 0, len(summaries))
	for _, s := range summaries {
		if s != nil {
			kept = append(kept, *s)
		}
	}
	if len(kept) > 0 {
		return &Retrieval{Summaries: kept, Fallback: FallbackNone}, nil
	}

	logger.Warn("retrieve: all %d pages failed for %q, falling back to snippets", len(results), query)
	return &Retrieval{Summaries: snippetSummaries(results), Fallback: FallbackSnippets}, nil
}

// snippetSummaries builds degraded summaries from the search results
// themselves. Results with neither snippet nor title are dropped.
func snippetSummaries(results []websearch.Result) []PageSummary {
	out := make([]PageSummary, 0, len(results))
	for _, r := range results {
		text := strings.TrimSpace(r.Snippet)
		if text == "" {
			text = strings.TrimSpace(r.Title)
		}
		if text == "" {
			continue
		}
		out = append(out, PageSummary{URL: r.URL, Summary: text})
	}
	return out
}
