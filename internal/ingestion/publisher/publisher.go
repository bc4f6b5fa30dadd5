// Package publisher holds the ingestion sinks: a Postgres table keyed by
// content hash, and a Kafka topic of JSON documents.
package publisher

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/postgres"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	id           BIGSERIAL PRIMARY KEY,
	title        TEXT NOT NULL,
	url          TEXT NOT NULL DEFAULT '',
	body         TEXT NOT NULL,
	content_hash CHAR(64) NOT NULL UNIQUE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresSink struct {
	db     *postgres.Client
	logger *slog.Logger
}

func NewPostgresSink(db *postgres.Client) *PostgresSink {
	return &PostgresSink{
		db:     db,
		logger: slog.Default().With("component", "postgres-sink"),
	}
}

func (s *PostgresSink) Name() string { return "postgres" }

// EnsureSchema creates the documents table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// Write inserts the batch in one transaction. Rows whose content hash is
// already present are skipped, so re-running an ingest is idempotent.
func (s *PostgresSink) Write(ctx context.Context, batch []ingestion.Record) (int, error) {
	inserted := 0
	err := s.db.InTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO documents (title, url, body, content_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (content_hash) DO NOTHING`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()
		for _, rec := range batch {
			res, err := stmt.ExecContext(ctx, rec.Title, rec.URL, rec.Body, rec.ContentHash)
			if err != nil {
				return fmt.Errorf("inserting %q: %w", rec.Title, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if dup := len(batch) - inserted; dup > 0 {
		s.logger.Debug("duplicate documents skipped", "count", dup)
	}
	return inserted, nil
}

// BatchPublisher is the part of kafka.Producer a KafkaSink needs.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

type KafkaSink struct {
	producer BatchPublisher
}

func NewKafkaSink(producer BatchPublisher) *KafkaSink {
	return &KafkaSink{producer: producer}
}

func (s *KafkaSink) Name() string { return "kafka" }

// Write publishes each record as a JSON RawDocument keyed by content hash.
// Kafka cannot detect duplicates, so every record counts as stored.
func (s *KafkaSink) Write(ctx context.Context, batch []ingestion.Record) (int, error) {
	events := make([]kafka.Event, len(batch))
	for i, rec := range batch {
		events[i] = kafka.Event{Key: rec.ContentHash, Value: rec.RawDocument}
	}
	if err := s.producer.PublishBatch(ctx, events); err != nil {
		return 0, err
	}
	return len(batch), nil
}
