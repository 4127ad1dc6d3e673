package pipeline

import (
	"context"
	"regexp"
	"strings"

	"askweb/internal/llm"
	"askweb/internal/logger"
)

// heuristicWebLength: queries longer than this go straight to the web path.
const heuristicWebLength = 70

// yearPattern matches year tokens that imply recent information.
var yearPattern = regexp.MustCompile(`\b20(2[4-9]|3[0-9])\b`)

// intentPatterns are signals that a query needs live web information:
// superlatives and rankings, comparisons, time-sensitive topics, locality.
var intentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\btop[-\s]*\d+\b`),
	regexp.MustCompile(`\bbest\b`),
	regexp.MustCompile(`\brank(?:ing|ings)?\b`),
	regexp.MustCompile(`\bwhich\s+is\s+better\b`),
	regexp.MustCompile(`\b(?:vs\.?|versus)\b`),
	regexp.MustCompile(`\bcompare|comparison\b`),

	regexp.MustCompile(`\bprice|cost|cheapest|pricing\b`),
	regexp.MustCompile(`\blatest|today|current|now\b`),
	regexp.MustCompile(`\bnews|breaking|trending\b`),
	regexp.MustCompile(`\breleased?|launched?|updated?\b`),

	regexp.MustCompile(`\bnear\s+me|nearby\b`),
	regexp.MustCompile(`\bhappening\b`),
}

// Router decides whether a query needs live web information.
// A cheap deterministic pass handles the obvious cases; only genuinely
// ambiguous queries pay for a model call.
type Router struct {
	model llm.Client
}

// NewRouter creates a router backed by the given model.
func NewRouter(model llm.Client) *Router {
	return &Router{model: model}
}

// Route classifies the query as web or direct.
func (r *Router) Route(ctx context.Context, query string) (Route, error) {
	if route, decided := heuristicRoute(query); decided {
		logger.Debug("router: heuristic decided %s for %q", route, query)
		return route, nil
	}

	// Heuristic is unsure; ask the model
	route, err := r.modelRoute(ctx, query)
	if err != nil {
		return "", err
	}
	logger.Debug("router: model decided %s for %q", route, query)
	return route, nil
}

// heuristicRoute is the deterministic no-I/O stage. It only ever decides
// "web": absence of a signal is not evidence that general knowledge
// suffices, so anything else is left to the model.
func heuristicRoute(query string) (Route, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(query))

	if len(trimmed) > heuristicWebLength {
		return RouteWeb, true
	}
	if yearPattern.MatchString(trimmed) {
		return RouteWeb, true
	}
	for _, p := range intentPatterns {
		if p.MatchString(trimmed) {
			return RouteWeb, true
		}
	}

	// Not confident either way
	return "", false
}

// modelRoute asks the model for a single-word classification. Anything
// other than exactly "web" falls back to direct: the heuristic already
// caught the obvious web cases, so the cheap path is the safe default.
func (r *Router) modelRoute(ctx context.Context, query string) (Route, error) {
	output, err := r.model.Invoke(ctx, []llm.Message{
		llm.System(routerSystemPrompt),
		llm.User(query),
	}, 0)
	if err != nil {
		return "", &ModelError{Err: err}
	}

	if strings.ToLower(strings.TrimSpace(output)) == "web" {
		return RouteWeb, nil
	}
	return RouteDirect, nil
}
