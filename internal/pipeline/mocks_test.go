package pipeline

import (
	"context"
	"strings"
	"sync"

	"askweb/internal/llm"
	"askweb/internal/webpage"
	"askweb/internal/websearch"
)

// fakeModel returns canned output per system prompt so a single fake can
// drive routing, summarizing and composing in the same test.
type fakeModel struct {
	mu sync.Mutex

	routeOutput   string
	summaryOutput string
	answerOutput  string
	err           error

	routeCalls     int
	summarizeCalls int
	composeCalls   []float64 // temperatures seen by compose/direct calls
	lastUserPrompt string
}

func (m *fakeModel) Invoke(_ context.Context, messages []llm.Message, temperature float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	var system, user string
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			system = msg.Content
		case llm.RoleUser:
			user = msg.Content
		}
	}
	m.lastUserPrompt = user
	switch {
	case strings.Contains(system, "routing classifier"):
		m.routeCalls++
		return m.routeOutput, nil
	case strings.Contains(system, "summaries"):
		if strings.Contains(system, "answer questions") {
			m.composeCalls = append(m.composeCalls, temperature)
			return m.answerOutput, nil
		}
		m.summarizeCalls++
		return m.summaryOutput, nil
	default:
		m.composeCalls = append(m.composeCalls, temperature)
		return m.answerOutput, nil
	}
}

type fakeSearcher struct {
	results []websearch.Result
	err     error
	calls   int
	lastQ   string
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]websearch.Result, error) {
	s.calls++
	s.lastQ = query
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

// fakeOpener serves page text by URL; URLs listed in fail return an error.
type fakeOpener struct {
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]bool
	calls int
}

func (o *fakeOpener) Open(_ context.Context, url string) (webpage.Content, error) {
	o.mu.Lock()
	o.calls++
	o.mu.Unlock()
	if o.fail[url] {
		return webpage.Content{}, &webpage.FetchError{Status: 503}
	}
	return webpage.Content{URL: url, Text: o.pages[url]}, nil
}

func searchResults(n int) []websearch.Result {
	out := make([]websearch.Result, 0, n)
	for i := 0; i < n; i++ {
		c := string(rune('a' + i))
		out = append(out, websearch.Result{
			Title:   "Page " + c,
			URL:     "https://example.com/" + c,
			Snippet: "snippet " + c,
		})
	}
	return out
}
