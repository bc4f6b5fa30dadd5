package corpus

import (
	"context"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/postgres"
)

// PostgresSource reads documents from the documents table written by the
// ingest tool, in insertion order.
type PostgresSource struct {
	db *postgres.Client
}

// NewPostgresSource returns a Source over db.
func NewPostgresSource(db *postgres.Client) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) Name() string {
	return "postgres"
}

func (s *PostgresSource) Scan(ctx context.Context, fn func(RawDocument) error) error {
	return s.db.InReadTx(ctx, func(q postgres.Querier) error {
		rows, err := q.QueryContext(ctx, `SELECT title, url, body FROM documents ORDER BY id`)
		if err != nil {
			return fmt.Errorf("querying documents: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var raw RawDocument
			if err := rows.Scan(&raw.Title, &raw.URL, &raw.Body); err != nil {
				return fmt.Errorf("scanning document row: %w", err)
			}
			if err := fn(raw); err != nil {
				return err
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating document rows: %w", err)
		}
		return nil
	})
}
