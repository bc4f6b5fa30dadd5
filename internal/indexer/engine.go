// Package indexer loads a corpus from a source and builds the inverted index
// over it in a single blocking pass. A failure anywhere aborts the build; no
// partial index is ever returned.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/metrics"
)

// Options configures Build.
type Options struct {
	// Analyzer is shared with the query side. Nil uses the default
	// stop-words.
	Analyzer     *tokenizer.Analyzer
	MaxDocuments int
	Metrics      *metrics.Metrics
}

// Engine is the product of a build: the loaded corpus, the index over it,
// and the analyzer queries must use. It is read-only.
type Engine struct {
	corpus   *corpus.Corpus
	index    *index.Index
	analyzer *tokenizer.Analyzer
}

// NewEngine indexes an already loaded corpus.
func NewEngine(c *corpus.Corpus, analyzer *tokenizer.Analyzer) *Engine {
	if analyzer == nil {
		analyzer = tokenizer.NewAnalyzer(nil)
	}
	return &Engine{
		corpus:   c,
		index:    index.Build(c.Documents(), analyzer),
		analyzer: analyzer,
	}
}

// Build loads every document from src and indexes it.
func Build(ctx context.Context, src corpus.Source, opts Options) (*Engine, error) {
	logger := slog.Default().With("component", "indexer")
	start := time.Now()

	c, err := corpus.Load(ctx, src, corpus.LoadOptions{MaxDocuments: opts.MaxDocuments})
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	buildStart := time.Now()
	e := NewEngine(c, opts.Analyzer)
	logger.Info("index built",
		"source", src.Name(),
		"docs", e.index.DocCount(),
		"terms", e.index.Terms(),
		"size_bytes", e.index.SizeInBytes(),
		"fingerprint", e.index.Fingerprint(),
		"build_elapsed", time.Since(buildStart).Round(time.Millisecond),
		"total_elapsed", time.Since(start).Round(time.Millisecond),
	)
	if opts.Metrics != nil {
		opts.Metrics.DocsIndexedTotal.Add(float64(e.index.DocCount()))
		opts.Metrics.IndexTerms.Set(float64(e.index.Terms()))
		opts.Metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	}
	return e, nil
}

func (e *Engine) Corpus() *corpus.Corpus {
	return e.corpus
}

func (e *Engine) Index() *index.Index {
	return e.index
}

func (e *Engine) Analyzer() *tokenizer.Analyzer {
	return e.analyzer
}
