package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestComposeWithSummaries(t *testing.T) {
	model := &fakeModel{answerOutput: "  Go is a compiled language. \n"}
	c := NewComposer(model)

	summaries := []PageSummary{
		{URL: "https://a", Summary: "first"},
		{URL: "https://b", Summary: "second"},
	}
	got, err := c.Compose(context.Background(), "what is go", summaries, FallbackNone)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got.Answer != "Go is a compiled language." {
		t.Errorf("answer = %q", got.Answer)
	}
	if got.Mode != RouteWeb {
		t.Errorf("mode = %s, want web", got.Mode)
	}
	if len(got.Sources) != 2 || got.Sources[0] != "https://a" || got.Sources[1] != "https://b" {
		t.Errorf("sources = %v, want summary URLs in order", got.Sources)
	}
	if !strings.Contains(model.lastUserPrompt, "what is go") {
		t.Error("query missing from compose prompt")
	}
	if !strings.Contains(model.lastUserPrompt, "https://a") {
		t.Error("summaries missing from compose prompt")
	}
}

func TestComposeEmptySummariesAnswersDirect(t *testing.T) {
	model := &fakeModel{answerOutput: "a direct answer"}
	c := NewComposer(model)

	for _, summaries := range [][]PageSummary{nil, {}} {
		got, err := c.Compose(context.Background(), "what is go", summaries, FallbackNoResults)
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		if got.Mode != RouteDirect {
			t.Errorf("mode = %s, want direct", got.Mode)
		}
		if got.Sources == nil || len(got.Sources) != 0 {
			t.Errorf("sources = %v, want empty non-nil slice", got.Sources)
		}
		if got.Answer != "a direct answer" {
			t.Errorf("answer = %q", got.Answer)
		}
	}
}

func TestComposeModelError(t *testing.T) {
	model := &fakeModel{err: errors.New("timeout")}
	c := NewComposer(model)

	_, err := c.Compose(context.Background(), "q", []PageSummary{{URL: "https://a", Summary: "s"}}, FallbackNone)
	var modelErr *ModelError
	if !errors.As(err, &modelErr) {
		t.Fatalf("error = %v, want *ModelError", err)
	}
}
