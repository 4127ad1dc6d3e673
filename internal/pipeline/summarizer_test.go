package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSummarizeClipsInput(t *testing.T) {
	model := &fakeModel{summaryOutput: "a summary"}
	s := NewSummarizer(model)

	long := strings.Repeat("x", 5000)
	if _, err := s.Summarize(context.Background(), long); err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if strings.Count(model.lastUserPrompt, "x") != summarizeInputChars {
		t.Errorf("input not clipped to %d chars", summarizeInputChars)
	}
}

func TestSummarizeNormalizesOutput(t *testing.T) {
	model := &fakeModel{summaryOutput: "  line one \t\nline two\n\n\n\n\nline three  "}
	s := NewSummarizer(model)

	got, err := s.Summarize(context.Background(), "some page text")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	want := "line one\nline two\n\nline three"
	if got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}

func TestSummarizeCapsOutput(t *testing.T) {
	model := &fakeModel{summaryOutput: strings.Repeat("y", 4000)}
	s := NewSummarizer(model)

	got, err := s.Summarize(context.Background(), "text")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len([]rune(got)) != summaryMaxChars {
		t.Errorf("summary length = %d, want %d", len([]rune(got)), summaryMaxChars)
	}
}

func TestSummarizeModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("quota exceeded")}
	s := NewSummarizer(model)

	_, err := s.Summarize(context.Background(), "text")
	var modelErr *ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("error = %v, want *ModelError", err)
	}
}
