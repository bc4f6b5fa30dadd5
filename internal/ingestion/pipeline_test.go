package ingestion

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	apperrors "github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/errors"
)

type memSink struct {
	name    string
	mu      sync.Mutex
	batches [][]Record
	seen    map[string]bool
	err     error
}

func newMemSink(name string) *memSink {
	return &memSink{name: name, seen: make(map[string]bool)}
}

func (s *memSink) Name() string { return s.name }

func (s *memSink) Write(ctx context.Context, batch []Record) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]Record(nil), batch...))
	n := 0
	for _, r := range batch {
		if !s.seen[r.ContentHash] {
			s.seen[r.ContentHash] = true
			n++
		}
	}
	return n, nil
}

var docs = corpus.SliceSource{
	{Title: "Cat", Body: "The cat sat"},
	{Title: "Dog", Body: "A dog ran"},
	{Title: "Cat", Body: "The cat sat"},
	{Title: "Both", Body: "Cats and dogs"},
	{Title: "Fish", Body: "Fish swim"},
}

func TestPipelineBatchesAndDedup(t *testing.T) {
	sink := newMemSink("mem")
	stats, err := NewPipeline(Options{BatchSize: 2}, sink).Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Read != 5 || stats.Batches != 3 {
		t.Fatalf("read=%d batches=%d; want 5, 3", stats.Read, stats.Batches)
	}
	if stats.Stored["mem"] != 4 {
		t.Fatalf("stored = %d; want 4 after dedup", stats.Stored["mem"])
	}
	if len(sink.batches[2]) != 1 {
		t.Fatalf("last batch size = %d; want 1", len(sink.batches[2]))
	}
}

func TestPipelineFansOut(t *testing.T) {
	a, b := newMemSink("a"), newMemSink("b")
	stats, err := NewPipeline(Options{}, a, b).Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Stored["a"] != 4 || stats.Stored["b"] != 4 {
		t.Fatalf("stored = %v", stats.Stored)
	}
}

func TestPipelineMaxDocuments(t *testing.T) {
	sink := newMemSink("mem")
	stats, err := NewPipeline(Options{MaxDocuments: 2}, sink).Run(context.Background(), docs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Read != 2 || stats.Stored["mem"] != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestPipelineInvalid(t *testing.T) {
	src := corpus.SliceSource{
		{Title: "ok", Body: "fine"},
		{Title: "bad", Body: "\xff\xfe"},
		{Title: "ok2", Body: "also fine"},
	}

	_, err := NewPipeline(Options{}, newMemSink("mem")).Run(context.Background(), src)
	if !errors.Is(err, apperrors.ErrInvalidDocument) {
		t.Fatalf("err = %v; want ErrInvalidDocument", err)
	}

	sink := newMemSink("mem")
	stats, err := NewPipeline(Options{SkipInvalid: true}, sink).Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run with SkipInvalid: %v", err)
	}
	if stats.Invalid != 1 || stats.Stored["mem"] != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestPipelineSinkError(t *testing.T) {
	boom := errors.New("boom")
	bad := newMemSink("bad")
	bad.err = boom
	_, err := NewPipeline(Options{}, newMemSink("ok"), bad).Run(context.Background(), docs)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want boom", err)
	}
}

func TestPipelineNoSinks(t *testing.T) {
	if _, err := NewPipeline(Options{}).Run(context.Background(), docs); err == nil {
		t.Fatal("expected error without sinks")
	}
}

func TestNewRecordHash(t *testing.T) {
	a := NewRecord(corpus.RawDocument{Title: "ab", Body: "c"})
	b := NewRecord(corpus.RawDocument{Title: "a", Body: "bc"})
	if a.ContentHash == b.ContentHash {
		t.Fatal("field boundaries not part of the hash")
	}
	if len(a.ContentHash) != 64 {
		t.Fatalf("hash length = %d; want 64", len(a.ContentHash))
	}
}
