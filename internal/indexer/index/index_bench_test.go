package index

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/tokenizer"
)

func benchDocs(n int) []corpus.Document {
	raw := make([]corpus.RawDocument, n)
	for i := range raw {
		raw[i] = corpus.RawDocument{
			Title: fmt.Sprintf("doc-%d", i),
			Body:  fmt.Sprintf("search engine with distributed indexing and query processing term%d", i%100),
		}
	}
	return corpus.FromRaw(raw).Documents()
}

// BenchmarkBuilderAdd measures per-document insert throughput.
func BenchmarkBuilderAdd(b *testing.B) {
	docs := benchDocs(1000)
	builder := NewBuilder(tokenizer.NewAnalyzer(nil))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		doc := docs[i%len(docs)]
		doc.ID = uint32(i)
		builder.Add(doc)
	}
}

// BenchmarkLookup measures single-stem lookup latency over 10 000 documents.
func BenchmarkLookup(b *testing.B) {
	x := Build(benchDocs(10000), tokenizer.NewAnalyzer(nil))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p, _ := x.Lookup("search")
		_ = p
	}
}

// BenchmarkIntersectParallel measures concurrent read throughput.
func BenchmarkIntersectParallel(b *testing.B) {
	x := Build(benchDocs(10000), tokenizer.NewAnalyzer(nil))
	search, _ := x.Lookup("search")
	term, _ := x.Lookup("term7")
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = Intersect(search, term).Len()
		}
	})
}
