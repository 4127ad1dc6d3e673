package pipeline

import (
	"context"
	"regexp"
	"strings"

	"askweb/internal/llm"
)

const (
	// summarizeInputChars caps how much page text is sent to the model.
	summarizeInputChars = 2000
	// summaryMaxChars caps the summary kept from the model output.
	summaryMaxChars = 2500

	summarizeTemperature = 0.2
)

var (
	trailingSpaceBeforeNewline = regexp.MustCompile(`[ \t]+\n`)
	excessBlankLines           = regexp.MustCompile(`\n{3,}`)
)

// Summarizer condenses page text into a short summary focused on a query.
type Summarizer struct {
	model llm.Client
}

// NewSummarizer creates a summarizer backed by the given model.
func NewSummarizer(model llm.Client) *Summarizer {
	return &Summarizer{model: model}
}

// Summarize produces a query-focused summary of the given page text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	input := clipRunes(text, summarizeInputChars)

	output, err := s.model.Invoke(ctx, []llm.Message{
		llm.System(summarizerSystemPrompt),
		llm.User(buildSummarizeUserPrompt(input)),
	}, summarizeTemperature)
	if err != nil {
		return "", &ModelError{Err: err}
	}

	return normalizeSummary(output), nil
}

// normalizeSummary cleans up model output whitespace and caps its length.
func normalizeSummary(s string) string {
	s = trailingSpaceBeforeNewline.ReplaceAllString(s, "\n")
	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)
	return clipRunes(s, summaryMaxChars)
}

func clipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
