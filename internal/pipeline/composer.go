package pipeline

import (
	"context"
	"strings"

	"askweb/internal/llm"
)

const composeTemperature = 0.2

// Composer turns summaries into a final answer. With no summaries it
// falls back to answering from the model's own knowledge.
type Composer struct {
	model llm.Client
}

// NewComposer creates a composer backed by the given model.
func NewComposer(model llm.Client) *Composer {
	return &Composer{model: model}
}

// Compose produces the final answer for the query. A nil or empty
// summary list yields a direct answer with no sources.
func (c *Composer) Compose(ctx context.Context, query string, summaries []PageSummary, fallback FallbackMode) (*Candidate, error) {
	if len(summaries) == 0 {
		return c.composeDirect(ctx, query)
	}

	output, err := c.model.Invoke(ctx, []llm.Message{
		llm.System(composerSystemPrompt),
		llm.User(buildComposeUserPrompt(query, summaries)),
	}, composeTemperature)
	if err != nil {
		return nil, &ModelError{Err: err}
	}

	sources := make([]string, 0, len(summaries))
	for _, s := range summaries {
		sources = append(sources, s.URL)
	}
	return &Candidate{
		Answer:  strings.TrimSpace(output),
		Sources: sources,
		Mode:    RouteWeb,
	}, nil
}

func (c *Composer) composeDirect(ctx context.Context, query string) (*Candidate, error) {
	output, err := c.model.Invoke(ctx, []llm.Message{
		llm.System(directSystemPrompt),
		llm.User(query),
	}, composeTemperature)
	if err != nil {
		return nil, &ModelError{Err: err}
	}
	return &Candidate{
		Answer:  strings.TrimSpace(output),
		Sources: []string{},
		Mode:    RouteDirect,
	}, nil
}
