// Command search builds the index once and answers queries typed on
// standard input, one per line, until end of input.
//
// Logs go to standard error so piped output carries only results.
//
// Usage:
//
//	go run ./cmd/search [-config configs/development.yaml] [-path dump.xml.gz] [-policy strict]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/repl"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	path := flag.String("path", "", "abstract dump to index (implies -source xml)")
	source := flag.String("source", "", "corpus source: xml, postgres or kafka")
	policy := flag.String("policy", "", "query policy: matched or strict")
	limit := flag.Int("limit", -1, "documents to print per query (0 prints all)")
	prompt := flag.String("prompt", "> ", "prompt printed before each query")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *source != "" {
		cfg.Corpus.Source = *source
	}
	if *path != "" {
		cfg.Corpus.Source = config.SourceXML
		cfg.Corpus.Path = *path
	}
	if *policy != "" {
		cfg.Search.Policy = *policy
	}
	if *limit >= 0 {
		cfg.Search.DisplayLimit = *limit
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *prompt); err != nil {
		slog.Error("search failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, prompt string) error {
	p, err := executor.ParsePolicy(cfg.Search.Policy)
	if err != nil {
		return err
	}

	src, closer, err := corpus.Open(ctx, cfg)
	if err != nil {
		return err
	}
	engine, err := indexer.Build(ctx, src, indexer.Options{MaxDocuments: cfg.Corpus.MaxDocuments})
	closer.Close()
	if err != nil {
		return err
	}

	r := &repl.REPL{
		Searcher:  executor.New(engine.Index(), engine.Analyzer(), p, nil),
		Documents: engine.Corpus(),
		Limit:     cfg.Search.DisplayLimit,
		Prompt:    prompt,
		In:        os.Stdin,
		Out:       os.Stdout,
	}
	slog.Info("ready for queries", "policy", p, "documents", engine.Corpus().Len())
	if err := r.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
