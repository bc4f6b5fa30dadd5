// Command searcher builds the index at startup and serves it over HTTP.
//
// Endpoints:
//
//	GET  /api/v1/search?q=...&limit=N
//	GET  /api/v1/documents/{id}
//	GET  /api/v1/index/stats
//	GET  /api/v1/cache/stats
//	POST /api/v1/cache/invalidate
//	GET  /health/live, /health/ready
//
// Usage:
//
//	go run ./cmd/searcher [-config configs/development.yaml]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service",
		"port", cfg.Server.Port,
		"source", cfg.Corpus.Source,
		"policy", cfg.Search.Policy,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("search service failed", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	policy, err := executor.ParsePolicy(cfg.Search.Policy)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	src, closer, err := corpus.Open(ctx, cfg)
	if err != nil {
		return err
	}
	engine, err := indexer.Build(ctx, src, indexer.Options{
		MaxDocuments: cfg.Corpus.MaxDocuments,
		Metrics:      m,
	})
	closer.Close()
	if err != nil {
		return err
	}

	checker := health.NewChecker()
	checker.Register("index", health.IndexCheck(engine.Index()))

	var queryCache *cache.QueryCache
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(ctx, cfg.Redis, cfg.Retry)
		if err != nil {
			slog.Warn("redis unavailable, search caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis.CacheTTL, engine.Index().Fingerprint(), m)
			checker.Register("redis", health.PingCheck(redisClient.Ping, health.StatusDegraded))
			slog.Info("search cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	h := handler.New(handler.Config{
		Executor:     executor.New(engine.Index(), engine.Analyzer(), policy, m),
		Analyzer:     engine.Analyzer(),
		Documents:    engine.Corpus(),
		Index:        engine.Index(),
		Cache:        queryCache,
		Metrics:      m,
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxResults:   cfg.Search.MaxResults,
	})

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port, reg, cfg.Server.ShutdownTimeout)
		g.Go(func() error { return metricsServer.Run(gctx) })
	}
	g.Go(func() error {
		slog.Info("search service listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
