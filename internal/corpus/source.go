package corpus

import (
	"context"
	"fmt"
	"io"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/postgres"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/resilience"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the Source selected by cfg.Corpus.Source. Network-backed
// sources are connected up front, with retries, so a build does not start
// against an unreachable backend. The returned Closer releases the
// connection once loading is done.
func Open(ctx context.Context, cfg *config.Config) (Source, io.Closer, error) {
	retryCfg := resilience.RetryConfig{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: cfg.Retry.InitialDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
	}
	switch cfg.Corpus.Source {
	case config.SourceXML:
		return NewXMLFileSource(cfg.Corpus.Path), nopCloser{}, nil

	case config.SourcePostgres:
		var db *postgres.Client
		err := resilience.Retry(ctx, "postgres-connect", retryCfg, func(ctx context.Context) error {
			var err error
			db, err = postgres.New(cfg.Postgres)
			return err
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
		}
		return NewPostgresSource(db), db, nil

	case config.SourceKafka:
		d := kafka.NewDrainer(cfg.Kafka, cfg.Kafka.Topics.Documents)
		if err := resilience.Retry(ctx, "kafka-connect", retryCfg, d.Ping); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrSourceUnavailable, err)
		}
		return NewKafkaSource(d), nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown corpus source %q", apperrors.ErrInvalidInput, cfg.Corpus.Source)
	}
}
