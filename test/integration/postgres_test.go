//go:build integration

// Package integration runs the ingest and build path against a real
// PostgreSQL. Tests skip when the database is unreachable.
//
// Run with:
//
//	go test -v -tags=integration ./test/integration/...
package integration

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/ingestion/publisher"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/postgres"
)

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	db, err := postgres.New(config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:        envOrDefault("TEST_POSTGRES_DB", "abstractsearch_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "abstractsearch"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	})
	if err != nil {
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestIngestThenSearch(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := context.Background()

	sink := publisher.NewPostgresSink(db)
	if err := sink.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if _, err := db.DB.ExecContext(ctx, `TRUNCATE documents RESTART IDENTITY`); err != nil {
		t.Fatalf("truncating: %v", err)
	}

	docs := corpus.SliceSource{
		{Title: "Cat", Body: "The Cat sat"},
		{Title: "Dog", Body: "A dog ran"},
		{Title: "Both", Body: "Cats and dogs"},
	}
	pipeline := ingestion.NewPipeline(ingestion.Options{BatchSize: 2}, sink)
	for run := 0; run < 2; run++ {
		stats, err := pipeline.Run(ctx, docs)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		want := 3
		if run == 1 {
			want = 0
		}
		if stats.Stored["postgres"] != want {
			t.Fatalf("run %d stored %d; want %d", run, stats.Stored["postgres"], want)
		}
	}

	engine, err := indexer.Build(ctx, corpus.NewPostgresSource(db), indexer.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	exec := executor.New(engine.Index(), engine.Analyzer(), executor.PolicyMatchedTerms, nil)

	res, err := exec.Search(ctx, "cat dog")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.DocIDs) != 1 || res.DocIDs[0] != 2 {
		t.Fatalf("DocIDs = %v; want [2]", res.DocIDs)
	}
	if _, err := exec.Search(ctx, "zebra"); !errors.Is(err, apperrors.ErrNoResults) {
		t.Fatalf("err = %v; want ErrNoResults", err)
	}
}
