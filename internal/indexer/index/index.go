// Package index implements the inverted index: a map from stem to the set
// of documents whose analyzed body contains that stem. An Index is built once
// by a Builder and is read-only afterwards, so any number of goroutines may
// query it concurrently without locking.
package index

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer/tokenizer"
	"github.com/RoaringBitmap/roaring/v2"
)

// Index is an immutable stem -> Postings mapping.
type Index struct {
	postings    map[string]*roaring.Bitmap
	docCount    int
	fingerprint string
}

// Lookup returns the postings for stem. ok is false when the stem occurs in
// no document; an absent stem has no postings at all rather than an empty
// set.
func (x *Index) Lookup(stem string) (p Postings, ok bool) {
	bm, ok := x.postings[stem]
	if !ok {
		return Postings{}, false
	}
	return Postings{bm: bm}, true
}

// Terms returns the number of distinct stems.
func (x *Index) Terms() int {
	return len(x.postings)
}

// DocCount returns the number of documents the index was built from,
// including documents that contributed no stems.
func (x *Index) DocCount() int {
	return x.docCount
}

// Stems returns every indexed stem in lexical order.
func (x *Index) Stems() []string {
	return sortedStems(x.postings)
}

// Fingerprint identifies the index content: the document count and every
// stem with its postings. Indexes that answer every query identically share
// a fingerprint; any other pair differs.
func (x *Index) Fingerprint() string {
	return x.fingerprint
}

func sortedStems(postings map[string]*roaring.Bitmap) []string {
	stems := make([]string, 0, len(postings))
	for s := range postings {
		stems = append(stems, s)
	}
	sort.Strings(stems)
	return stems
}

func fingerprint(postings map[string]*roaring.Bitmap, docCount int) string {
	h := sha256.New()
	buf := binary.LittleEndian.AppendUint64(nil, uint64(docCount))
	for _, stem := range sortedStems(postings) {
		bm := postings[stem]
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(stem)))
		buf = append(buf, stem...)
		buf = binary.LittleEndian.AppendUint64(buf, bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			buf = binary.LittleEndian.AppendUint32(buf, it.Next())
			if len(buf) >= 1<<16 {
				h.Write(buf)
				buf = buf[:0]
			}
		}
	}
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// SizeInBytes estimates the memory held by the postings bitmaps and keys.
func (x *Index) SizeInBytes() uint64 {
	var size uint64
	for s, bm := range x.postings {
		size += uint64(len(s)) + bm.GetSizeInBytes()
	}
	return size
}

// Builder accumulates postings. It is not safe for concurrent use.
type Builder struct {
	analyzer *tokenizer.Analyzer
	postings map[string]*roaring.Bitmap
	docCount int
}

// NewBuilder returns a Builder that analyzes bodies with analyzer.
func NewBuilder(analyzer *tokenizer.Analyzer) *Builder {
	return &Builder{
		analyzer: analyzer,
		postings: make(map[string]*roaring.Bitmap),
	}
}

// Add indexes doc.Body under doc.ID. A document contributes its id at most
// once per stem no matter how often the stem occurs. Add returns the number
// of stems the body produced.
func (b *Builder) Add(doc corpus.Document) int {
	n := 0
	for stem := range b.analyzer.Terms(doc.Body) {
		bm, ok := b.postings[stem]
		if !ok {
			bm = roaring.New()
			b.postings[stem] = bm
		}
		bm.Add(doc.ID)
		n++
	}
	b.docCount++
	return n
}

// Finish compacts the postings and returns the read-only Index. The Builder
// is reset to empty, so later Adds never reach the returned Index.
func (b *Builder) Finish() *Index {
	for _, bm := range b.postings {
		bm.RunOptimize()
	}
	x := &Index{
		postings:    b.postings,
		docCount:    b.docCount,
		fingerprint: fingerprint(b.postings, b.docCount),
	}
	b.postings = make(map[string]*roaring.Bitmap)
	b.docCount = 0
	return x
}

// Build indexes docs in one pass. An empty docs slice yields an empty
// Index.
func Build(docs []corpus.Document, analyzer *tokenizer.Analyzer) *Index {
	b := NewBuilder(analyzer)
	for _, doc := range docs {
		b.Add(doc)
	}
	return b.Finish()
}
