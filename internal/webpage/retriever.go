package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// maxBodyBytes bounds how much of a response body is read before processing.
const maxBodyBytes = int64(512 * 1024)

// Content is the processed text of one fetched page.
type Content struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Cache stores processed page text keyed by URL.
type Cache interface {
	Get(url string) (string, bool)
	Put(url, text string)
}

// InvalidURLError indicates a malformed or disallowed-scheme URL.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url: %s", e.URL)
}

// FetchError indicates a non-success response while fetching a page.
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: status %d - %s", e.Status, e.Body)
}

// Retriever fetches a URL and reduces it to bounded plain text.
type Retriever struct {
	userAgent string
	maxChars  int
	client    *http.Client
	cache     Cache
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithCache attaches a page cache consulted before fetching.
func WithCache(cache Cache) Option {
	return func(r *Retriever) {
		r.cache = cache
	}
}

// WithHTTPClient overrides the HTTP client. Useful for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Retriever) {
		r.client = client
	}
}

// NewRetriever creates a page retriever.
func NewRetriever(userAgent string, maxChars int, timeout time.Duration, opts ...Option) *Retriever {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "askweb/0.1"
	}
	if maxChars <= 0 {
		maxChars = 8000
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	r := &Retriever{
		userAgent: userAgent,
		maxChars:  maxChars,
		client:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open fetches the URL, strips markup when the response is HTML, collapses
// whitespace, and truncates to the configured maximum.
func (r *Retriever) Open(ctx context.Context, rawURL string) (Content, error) {
	normalized, err := validateURL(rawURL)
	if err != nil {
		return Content{}, err
	}

	if r.cache != nil {
		if text, ok := r.cache.Get(normalized); ok {
			return Content{URL: normalized, Text: text}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized, nil)
	if err != nil {
		return Content{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return Content{}, fmt.Errorf("fetch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Content{}, &FetchError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Content{}, fmt.Errorf("failed to read response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	text := string(body)
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		text = htmlToText(strings.NewReader(text))
	}

	text = collapseWhitespace(text)
	text = truncateChars(text, r.maxChars)

	if r.cache != nil {
		r.cache.Put(normalized, text)
	}

	return Content{URL: normalized, Text: text}, nil
}

// validateURL parses the URL and restricts it to http/https.
func validateURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return "", &InvalidURLError{URL: rawURL}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", &InvalidURLError{URL: rawURL}
	}
	return parsed.String(), nil
}

// collapseWhitespace reduces all whitespace runs to single spaces and trims.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateChars caps a string at n characters (runes, not bytes).
func truncateChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
