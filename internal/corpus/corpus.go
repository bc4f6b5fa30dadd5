// Package corpus holds the documents an index is built from and the sources
// they are loaded from. Documents receive their ids in load order, starting
// at zero, and are never modified afterwards.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/errors"
)

// Document is a loaded, immutable corpus entry. Only Body is analyzed.
type Document struct {
	ID    uint32 `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Body  string `json:"body"`
}

// RawDocument is what a Source yields before an id has been assigned.
type RawDocument struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Body  string `json:"body"`
}

// Source yields raw documents in a stable order. Scan stops at the first
// error returned by fn and returns it.
type Source interface {
	Name() string
	Scan(ctx context.Context, fn func(RawDocument) error) error
}

// Corpus is a read-only, id-addressable collection of documents.
type Corpus struct {
	docs []Document
}

// New wraps docs, which must already carry ids 0..len(docs)-1 in order.
func New(docs []Document) *Corpus {
	return &Corpus{docs: docs}
}

// FromRaw assigns ids to raw in slice order.
func FromRaw(raw []RawDocument) *Corpus {
	docs := make([]Document, len(raw))
	for i, r := range raw {
		docs[i] = Document{ID: uint32(i), Title: r.Title, URL: r.URL, Body: r.Body}
	}
	return New(docs)
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return len(c.docs)
}

// Get returns the document with the given id.
func (c *Corpus) Get(id uint32) (Document, bool) {
	if int64(id) >= int64(len(c.docs)) {
		return Document{}, false
	}
	return c.docs[id], true
}

// Documents returns the documents in id order. The slice must not be
// modified.
func (c *Corpus) Documents() []Document {
	return c.docs
}

// LoadOptions bounds a Load.
type LoadOptions struct {
	// MaxDocuments stops loading after this many documents; zero means no
	// limit.
	MaxDocuments int
}

// errLimitReached stops a Scan once MaxDocuments is hit.
var errLimitReached = errors.New("document limit reached")

// Load drains src into a Corpus. Every document is validated; the first
// invalid document aborts the load.
func Load(ctx context.Context, src Source, opts LoadOptions) (*Corpus, error) {
	logger := slog.Default().With("component", "corpus", "source", src.Name())
	start := time.Now()
	docs := make([]Document, 0, 1024)
	err := src.Scan(ctx, func(raw RawDocument) error {
		if opts.MaxDocuments > 0 && len(docs) >= opts.MaxDocuments {
			return errLimitReached
		}
		if uint64(len(docs)) > math.MaxUint32 {
			return fmt.Errorf("%w: document ids exhausted", apperrors.ErrInvalidInput)
		}
		if err := Validate(raw); err != nil {
			return fmt.Errorf("document %d: %w", len(docs), err)
		}
		docs = append(docs, Document{
			ID:    uint32(len(docs)),
			Title: raw.Title,
			URL:   raw.URL,
			Body:  raw.Body,
		})
		return nil
	})
	if err != nil && !errors.Is(err, errLimitReached) {
		return nil, fmt.Errorf("loading from %s: %w", src.Name(), err)
	}
	logger.Info("documents loaded",
		"count", len(docs),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return New(docs), nil
}
