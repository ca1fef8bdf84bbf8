package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/minisearch-labs/searchrank/internal/collection"
	"github.com/minisearch-labs/searchrank/internal/indexer"
	"github.com/minisearch-labs/searchrank/pkg/config"
	"github.com/minisearch-labs/searchrank/pkg/logger"
	"github.com/minisearch-labs/searchrank/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting index build",
		"collection", cfg.Collection.Dir,
		"output", cfg.Indexer.OutputPath,
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer shutdown(context.Background())
	}

	loader := collection.NewLoader(cfg.Collection)
	builder := indexer.NewBuilder(cfg.Indexer, loader, m)
	if err := builder.Run(); err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}

	slog.Info("index build complete")
}
