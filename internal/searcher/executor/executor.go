// Package executor answers analyzed queries against a built index by
// intersecting the postings of the query's stems.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/metrics"
)

// Policy decides what happens to query stems that occur in no document.
type Policy int

const (
	// PolicyMatchedTerms drops unknown stems and intersects the rest, so
	// "cat zebra" behaves like "cat" when no document mentions zebras.
	PolicyMatchedTerms Policy = iota
	// PolicyAllTerms requires every stem to be indexed; one unknown stem
	// makes the whole query match nothing.
	PolicyAllTerms
)

func (p Policy) String() string {
	switch p {
	case PolicyMatchedTerms:
		return "matched"
	case PolicyAllTerms:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps the configuration names "matched" and "strict" to a
// Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "matched", "":
		return PolicyMatchedTerms, nil
	case "strict":
		return PolicyAllTerms, nil
	default:
		return 0, fmt.Errorf("%w: unknown policy %q", apperrors.ErrInvalidInput, s)
	}
}

// Reason says why a query produced no results.
type Reason string

const (
	// ReasonNoStems: the query was blank or only stop-words.
	ReasonNoStems Reason = "no_stems"
	// ReasonUnknownStems: no stem was indexed (or, under PolicyAllTerms,
	// at least one was not).
	ReasonUnknownStems Reason = "unknown_stems"
	// ReasonEmptyIntersection: the stems were indexed but no single
	// document holds all of them.
	ReasonEmptyIntersection Reason = "empty_intersection"
)

// NoResultsError reports a query with no matching documents. It unwraps to
// apperrors.ErrNoResults for every Reason.
type NoResultsError struct {
	Query   string
	Reason  Reason
	Stems   []string
	Missing []string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no results found for %q (%s)", e.Query, e.Reason)
}

func (e *NoResultsError) Unwrap() error {
	return apperrors.ErrNoResults
}

// SearchResult is the full, unordered-by-relevance match set of a query.
// DocIDs is ascending.
type SearchResult struct {
	Query     string         `json:"query"`
	Policy    string         `json:"policy"`
	Stems     []string       `json:"stems"`
	Matched   []string       `json:"matched"`
	Missing   []string       `json:"missing"`
	TermStats map[string]int `json:"term_stats"`
	DocIDs    []uint32       `json:"doc_ids"`
}

// Total returns the number of matching documents.
func (r *SearchResult) Total() int {
	return len(r.DocIDs)
}

// Top returns at most n ids. n <= 0 means all of them.
func (r *SearchResult) Top(n int) []uint32 {
	if n <= 0 || n >= len(r.DocIDs) {
		return r.DocIDs
	}
	return r.DocIDs[:n]
}

// Executor runs queries against one immutable index. It holds no mutable
// state, so a single Executor may serve concurrent queries.
type Executor struct {
	index    *index.Index
	analyzer *tokenizer.Analyzer
	policy   Policy
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New returns an Executor. analyzer must be the one idx was built with.
// m may be nil.
func New(idx *index.Index, analyzer *tokenizer.Analyzer, policy Policy, m *metrics.Metrics) *Executor {
	return &Executor{
		index:    idx,
		analyzer: analyzer,
		policy:   policy,
		metrics:  m,
		logger:   slog.Default().With("component", "query-executor"),
	}
}

// Policy returns the combination policy in effect.
func (e *Executor) Policy() Policy {
	return e.policy
}

// Search parses query with the shared analyzer and executes it.
func (e *Executor) Search(ctx context.Context, query string) (*SearchResult, error) {
	return e.Execute(ctx, parser.Parse(query, e.analyzer))
}

// Execute looks up each stem of plan and intersects the postings found.
// Every empty outcome is returned as a *NoResultsError.
func (e *Executor) Execute(ctx context.Context, plan *parser.QueryPlan) (*SearchResult, error) {
	if err := ctx.Err(); err != nil {
		e.record("error", 0)
		return nil, err
	}
	if plan.Empty() {
		return nil, e.noResults(plan, ReasonNoStems, nil)
	}

	found := make([]index.Postings, 0, len(plan.Stems))
	matched := make([]string, 0, len(plan.Stems))
	missing := make([]string, 0)
	termStats := make(map[string]int, len(plan.Stems))
	for _, stem := range plan.Stems {
		p, ok := e.index.Lookup(stem)
		if !ok {
			missing = append(missing, stem)
			continue
		}
		found = append(found, p)
		matched = append(matched, stem)
		termStats[stem] = p.Len()
	}

	if len(found) == 0 || (e.policy == PolicyAllTerms && len(missing) > 0) {
		return nil, e.noResults(plan, ReasonUnknownStems, missing)
	}

	hits := index.Intersect(found...)
	if hits.IsEmpty() {
		return nil, e.noResults(plan, ReasonEmptyIntersection, missing)
	}

	result := &SearchResult{
		Query:     plan.RawQuery,
		Policy:    e.policy.String(),
		Stems:     plan.Stems,
		Matched:   matched,
		Missing:   missing,
		TermStats: termStats,
		DocIDs:    hits.IDs(),
	}
	e.logger.Debug("query executed",
		"query", plan.RawQuery,
		"stems", plan.Stems,
		"missing", missing,
		"results", result.Total(),
	)
	e.record("hits", result.Total())
	return result, nil
}

func (e *Executor) noResults(plan *parser.QueryPlan, reason Reason, missing []string) error {
	e.logger.Debug("query matched nothing",
		"query", plan.RawQuery,
		"reason", reason,
		"missing", missing,
	)
	e.record(string(reason), 0)
	return &NoResultsError{
		Query:   plan.RawQuery,
		Reason:  reason,
		Stems:   plan.Stems,
		Missing: missing,
	}
}

func (e *Executor) record(outcome string, results int) {
	if e.metrics == nil {
		return
	}
	e.metrics.SearchQueriesTotal.WithLabelValues(outcome).Inc()
	e.metrics.SearchResultsCount.Observe(float64(results))
}
