// Command ingest copies an abstract dump into Postgres, Kafka, or both, so
// the search service can load from a shared store instead of a local file.
//
// Usage:
//
//	go run ./cmd/ingest -path enwiki-latest-abstract1.xml.gz [-sink postgres,kafka] [-skip-invalid]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/ingestion/publisher"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	path := flag.String("path", "", "abstract dump to ingest (defaults to corpus.path)")
	sinks := flag.String("sink", "postgres", "comma-separated sinks: postgres, kafka")
	batchSize := flag.Int("batch", 500, "documents per write")
	skipInvalid := flag.Bool("skip-invalid", false, "skip documents that fail validation")
	maxDocs := flag.Int("max", 0, "stop after this many documents (0 for all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if *path == "" {
		*path = cfg.Corpus.Path
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := ingestion.Options{BatchSize: *batchSize, SkipInvalid: *skipInvalid, MaxDocuments: *maxDocs}
	if err := run(ctx, cfg, *path, strings.Split(*sinks, ","), opts); err != nil {
		slog.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, path string, sinkNames []string, opts ingestion.Options) error {
	retryCfg := resilience.RetryConfig{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: cfg.Retry.InitialDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
	}
	var sinks []ingestion.Sink
	for _, name := range sinkNames {
		switch strings.TrimSpace(name) {
		case "postgres":
			var db *postgres.Client
			err := resilience.Retry(ctx, "postgres-connect", retryCfg, func(ctx context.Context) error {
				var err error
				db, err = postgres.New(cfg.Postgres)
				return err
			})
			if err != nil {
				return err
			}
			defer db.Close()
			sink := publisher.NewPostgresSink(db)
			if err := sink.EnsureSchema(ctx); err != nil {
				return err
			}
			sinks = append(sinks, sink)
			slog.Info("postgres sink ready", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
		case "kafka":
			producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.Documents)
			defer producer.Close()
			sinks = append(sinks, publisher.NewKafkaSink(producer))
			slog.Info("kafka sink ready", "topic", cfg.Kafka.Topics.Documents)
		case "":
		default:
			return fmt.Errorf("unknown sink %q", name)
		}
	}

	stats, err := ingestion.NewPipeline(opts, sinks...).Run(ctx, corpus.NewXMLFileSource(path))
	if err != nil {
		return err
	}
	fmt.Printf("read %d documents, %d invalid, stored %v\n", stats.Read, stats.Invalid, stats.Stored)
	return nil
}
