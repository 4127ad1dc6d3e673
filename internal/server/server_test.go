package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"askweb/internal/pipeline"
)

type fakeAsker struct {
	candidate *pipeline.Candidate
	err       error
	lastQ     string
}

func (f *fakeAsker) Run(_ context.Context, query string) (*pipeline.Candidate, error) {
	f.lastQ = query
	if f.err != nil {
		return nil, f.err
	}
	return f.candidate, nil
}

func doAsk(t *testing.T, asker Asker, body string) *httptest.ResponseRecorder {
	t.Helper()
	s := New(":0", asker)
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	return rec
}

func TestAskHappyPath(t *testing.T) {
	asker := &fakeAsker{candidate: &pipeline.Candidate{
		Answer:  "the answer",
		Sources: []string{"https://a", "https://b"},
		Mode:    pipeline.RouteWeb,
	}}

	rec := doAsk(t, asker, `{"q":"  best laptops  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var resp struct {
		Answer  string   `json:"answer"`
		Sources []string `json:"sources"`
		Mode    string   `json:"mode"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Answer != "the answer" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Sources) != 2 {
		t.Errorf("sources = %v", resp.Sources)
	}
	if resp.Mode != "web" {
		t.Errorf("mode = %q, want web", resp.Mode)
	}
	if asker.lastQ != "best laptops" {
		t.Errorf("query not trimmed: %q", asker.lastQ)
	}
}

func TestAskEmptyQuery(t *testing.T) {
	for _, body := range []string{`{"q":""}`, `{"q":"   "}`, `{}`} {
		rec := doAsk(t, &fakeAsker{}, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestAskInvalidBody(t *testing.T) {
	rec := doAsk(t, &fakeAsker{}, `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAskPipelineErrorIsGeneric(t *testing.T) {
	asker := &fakeAsker{err: errors.New("tavily: status 401, body secret-key-hint")}

	rec := doAsk(t, asker, `{"q":"anything"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret-key-hint") {
		t.Error("internal error detail leaked to client")
	}
}

func TestAskMethodNotAllowed(t *testing.T) {
	s := New(":0", &fakeAsker{})
	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := New(":0", &fakeAsker{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
