// Package repl implements the interactive read-evaluate loop: one query per
// input line, results printed after each, exit on end of input.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/executor"
	apperrors "github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/errors"
)

const maxLineBytes = 1 << 20

// Searcher runs a single query.
type Searcher interface {
	Search(ctx context.Context, query string) (*executor.SearchResult, error)
}

// Documents resolves result ids for display.
type Documents interface {
	Get(id uint32) (corpus.Document, bool)
}

// REPL reads queries from In and writes results to Out.
type REPL struct {
	Searcher  Searcher
	Documents Documents
	// Limit caps how many documents are printed per query; the total hit
	// count is always printed. Zero or less prints every hit.
	Limit  int
	Prompt string
	In     io.Reader
	Out    io.Writer
}

// Run loops until In is exhausted or ctx is cancelled. Queries that match
// nothing are reported and the loop continues; only I/O failures end it
// with an error. Cancellation is noticed even while waiting for input; the
// reading goroutine then exits once In yields or closes.
func (r *REPL) Run(ctx context.Context) error {
	logger := slog.Default().With("component", "repl")
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines, readErr := r.readLines(readCtx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Prompt != "" {
			if _, err := io.WriteString(r.Out, r.Prompt); err != nil {
				return fmt.Errorf("writing prompt: %w", err)
			}
		}
		var query string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := <-readErr; err != nil {
					return fmt.Errorf("reading query: %w", err)
				}
				return nil
			}
			query = line
		}
		start := time.Now()
		res, err := r.Searcher.Search(ctx, query)
		logger.Debug("query evaluated", "query", query, "elapsed", time.Since(start))
		if err := r.print(query, res, err); err != nil {
			return err
		}
	}
}

// readLines scans In on its own goroutine. lines is closed at end of input
// or on cancellation; readErr receives the scanner error only in the first
// case.
func (r *REPL) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r.In)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()
	return lines, readErr
}

func (r *REPL) print(query string, res *executor.SearchResult, searchErr error) error {
	if searchErr != nil {
		if errors.Is(searchErr, apperrors.ErrNoResults) {
			_, err := fmt.Fprintf(r.Out, "no results found for %q\n", query)
			return err
		}
		if errors.Is(searchErr, context.Canceled) {
			return searchErr
		}
		_, err := fmt.Fprintf(r.Out, "search failed: %v\n", searchErr)
		return err
	}
	shown := res.Top(r.Limit)
	if _, err := fmt.Fprintf(r.Out, "%d results for %q, showing %d\n", res.Total(), query, len(shown)); err != nil {
		return err
	}
	for _, id := range shown {
		doc, ok := r.Documents.Get(id)
		if !ok {
			continue
		}
		line := fmt.Sprintf("  [%d] %s", doc.ID, doc.Title)
		if doc.URL != "" {
			line += " <" + doc.URL + ">"
		}
		if _, err := fmt.Fprintln(r.Out, line); err != nil {
			return err
		}
	}
	return nil
}
