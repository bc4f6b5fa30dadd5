package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/parser"
	apperrors "github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/middleware"
)

type SearchExecutor interface {
	Execute(ctx context.Context, plan *parser.QueryPlan) (*executor.SearchResult, error)
	Policy() executor.Policy
}

type Documents interface {
	Get(id uint32) (corpus.Document, bool)
	Len() int
}

type IndexStats interface {
	DocCount() int
	Terms() int
	SizeInBytes() uint64
}

// Config carries the handler's dependencies. Cache and Metrics may be nil.
type Config struct {
	Executor     SearchExecutor
	Analyzer     *tokenizer.Analyzer
	Documents    Documents
	Index        IndexStats
	Cache        *cache.QueryCache
	Metrics      *metrics.Metrics
	DefaultLimit int
	MaxResults   int
}

type Handler struct {
	executor     SearchExecutor
	analyzer     *tokenizer.Analyzer
	docs         Documents
	index        IndexStats
	cache        *cache.QueryCache
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

func New(cfg Config) *Handler {
	analyzer := cfg.Analyzer
	if analyzer == nil {
		analyzer = tokenizer.NewAnalyzer(nil)
	}
	return &Handler{
		executor:     cfg.Executor,
		analyzer:     analyzer,
		docs:         cfg.Documents,
		index:        cfg.Index,
		cache:        cfg.Cache,
		metrics:      cfg.Metrics,
		defaultLimit: cfg.DefaultLimit,
		maxResults:   cfg.MaxResults,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Register mounts every endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/documents/{id}", h.Document)
	mux.HandleFunc("GET /api/v1/index/stats", h.IndexStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
}

type DocumentHit struct {
	ID    uint32 `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

type SearchResponse struct {
	Query     string         `json:"query"`
	Policy    string         `json:"policy"`
	Outcome   string         `json:"outcome"`
	Stems     []string       `json:"stems"`
	Missing   []string       `json:"missing"`
	TermStats map[string]int `json:"term_stats,omitempty"`
	TotalHits int            `json:"total_hits"`
	Results   []DocumentHit  `json:"results"`
	Cached    bool           `json:"cached"`
	RequestID string         `json:"request_id,omitempty"`
}

const outcomeHits = "hits"

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if h.maxResults > 0 && (limit <= 0 || limit > h.maxResults) {
		limit = h.maxResults
	}

	plan := parser.Parse(query, h.analyzer)
	policy := h.executor.Policy()
	resp := &SearchResponse{
		Query:     query,
		Policy:    policy.String(),
		Stems:     nonNil(plan.Stems),
		Missing:   []string{},
		Results:   []DocumentHit{},
		RequestID: middleware.GetRequestID(ctx),
	}

	var result *executor.SearchResult
	var err error
	cacheHit := false
	compute := func() (*executor.SearchResult, error) {
		return h.executor.Execute(ctx, plan)
	}
	if h.cache != nil && !plan.Empty() {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, plan, policy, compute)
	} else {
		result, err = compute()
	}
	h.observe(cacheHit, start)

	var noResults *executor.NoResultsError
	switch {
	case errors.As(err, &noResults):
		resp.Outcome = string(noResults.Reason)
		resp.Missing = nonNil(noResults.Missing)
		log.Info("search matched nothing",
			"query", query,
			"reason", noResults.Reason,
			"latency_ms", time.Since(start).Milliseconds(),
		)
		h.writeJSON(w, http.StatusOK, resp)
		return
	case err != nil:
		log.Error("search execution failed", "query", query, "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "search failed")
		return
	}

	resp.Outcome = outcomeHits
	resp.Missing = nonNil(result.Missing)
	resp.TermStats = result.TermStats
	resp.TotalHits = result.Total()
	resp.Cached = cacheHit
	for _, id := range result.Top(limit) {
		doc, ok := h.docs.Get(id)
		if !ok {
			log.Error("result id not in corpus", "id", id)
			continue
		}
		resp.Results = append(resp.Results, DocumentHit{ID: doc.ID, Title: doc.Title, URL: doc.URL})
	}

	log.Info("search completed",
		"query", query,
		"total_hits", resp.TotalHits,
		"returned", len(resp.Results),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) observe(cacheHit bool, start time.Time) {
	if h.metrics == nil {
		return
	}
	status := "bypass"
	if h.cache != nil {
		status = "miss"
		if cacheHit {
			status = "hit"
		}
	}
	h.metrics.SearchLatency.WithLabelValues(status).Observe(time.Since(start).Seconds())
}

func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "document id must be a non-negative integer")
		return
	}
	doc, ok := h.docs.Get(uint32(id))
	if !ok {
		h.writeError(w, apperrors.HTTPStatusCode(apperrors.ErrDocumentNotFound),
			fmt.Sprintf("document %d not found", id))
		return
	}
	h.writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) IndexStats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"documents":     h.docs.Len(),
		"indexed_docs":  h.index.DocCount(),
		"terms":         h.index.Terms(),
		"size_bytes":    h.index.SizeInBytes(),
		"policy":        h.executor.Policy().String(),
		"default_limit": h.defaultLimit,
		"max_results":   h.maxResults,
	})
}

func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": fmt.Sprintf("%.1f%%", hitRate),
	})
}

func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
