package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	BatchSize int
	// SkipInvalid logs and drops documents that fail validation instead of
	// aborting the run.
	SkipInvalid bool
	// MaxDocuments stops after this many valid documents. Zero means all.
	MaxDocuments int
}

type Pipeline struct {
	sinks  []Sink
	opts   Options
	logger *slog.Logger
}

func NewPipeline(opts Options, sinks ...Sink) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	return &Pipeline{
		sinks:  sinks,
		opts:   opts,
		logger: slog.Default().With("component", "ingestion"),
	}
}

var errDone = errors.New("document limit reached")

// Run scans src and writes every valid document to all sinks, one batch at
// a time. Sinks receive each batch concurrently; the first sink error
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, src corpus.Source) (*Stats, error) {
	if len(p.sinks) == 0 {
		return nil, fmt.Errorf("no sinks configured")
	}
	start := time.Now()
	stats := &Stats{Stored: make(map[string]int, len(p.sinks))}
	batch := make([]Record, 0, p.opts.BatchSize)
	valid := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.write(ctx, batch, stats); err != nil {
			return err
		}
		stats.Batches++
		batch = batch[:0]
		return nil
	}

	err := src.Scan(ctx, func(raw corpus.RawDocument) error {
		stats.Read++
		if err := corpus.Validate(raw); err != nil {
			if !p.opts.SkipInvalid {
				return fmt.Errorf("document %d: %w", stats.Read, err)
			}
			stats.Invalid++
			p.logger.Warn("skipping invalid document", "position", stats.Read, "title", raw.Title, "error", err)
			return nil
		}
		batch = append(batch, NewRecord(raw))
		valid++
		if len(batch) >= p.opts.BatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
		if p.opts.MaxDocuments > 0 && valid >= p.opts.MaxDocuments {
			return errDone
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDone) {
		return stats, fmt.Errorf("ingesting from %s: %w", src.Name(), err)
	}
	if err := flush(); err != nil {
		return stats, fmt.Errorf("ingesting from %s: %w", src.Name(), err)
	}

	p.logger.Info("ingestion complete",
		"source", src.Name(),
		"read", stats.Read,
		"invalid", stats.Invalid,
		"batches", stats.Batches,
		"stored", stats.Stored,
		"elapsed", time.Since(start),
	)
	return stats, nil
}

func (p *Pipeline) write(ctx context.Context, batch []Record, stats *Stats) error {
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range p.sinks {
		g.Go(func() error {
			n, err := sink.Write(gctx, batch)
			if err != nil {
				return fmt.Errorf("sink %s: %w", sink.Name(), err)
			}
			mu.Lock()
			stats.Stored[sink.Name()] += n
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
