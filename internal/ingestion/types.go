// Package ingestion copies documents from a corpus source, usually an
// abstract dump, into the stores the search service can load from: the
// Postgres documents table and the Kafka documents topic.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
)

// Record is a validated document with the hash used to deduplicate it.
type Record struct {
	corpus.RawDocument
	ContentHash string
}

// NewRecord hashes title, url and body.
func NewRecord(raw corpus.RawDocument) Record {
	h := sha256.New()
	h.Write([]byte(raw.Title))
	h.Write([]byte{0})
	h.Write([]byte(raw.URL))
	h.Write([]byte{0})
	h.Write([]byte(raw.Body))
	return Record{RawDocument: raw, ContentHash: hex.EncodeToString(h.Sum(nil))}
}

// Sink stores batches of records. Write returns how many records were
// newly stored; duplicates a sink can detect are not counted.
type Sink interface {
	Name() string
	Write(ctx context.Context, batch []Record) (int, error)
}

// Stats summarizes one ingestion run.
type Stats struct {
	Read    int            `json:"read"`
	Invalid int            `json:"invalid"`
	Batches int            `json:"batches"`
	Stored  map[string]int `json:"stored"`
}
