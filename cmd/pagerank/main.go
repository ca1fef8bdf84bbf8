package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/minisearch-labs/searchrank/internal/collection"
	"github.com/minisearch-labs/searchrank/internal/pagerank"
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
	if err := applyArgs(&cfg.Pagerank, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\nusage: %s [-config file] [d diffPR maxIterations]\n", err, os.Args[0])
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting rank computation",
		"collection", cfg.Collection.Dir,
		"output", cfg.Pagerank.OutputPath,
		"damping", cfg.Pagerank.Damping,
		"convergence", cfg.Pagerank.Convergence,
		"max_iterations", cfg.Pagerank.MaxIterations,
	)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer shutdown(context.Background())
	}

	loader := collection.NewLoader(cfg.Collection)
	ranker := pagerank.NewRanker(cfg.Pagerank, loader, m)
	if err := ranker.Run(); err != nil {
		slog.Error("rank computation failed", "error", err)
		os.Exit(1)
	}

	slog.Info("rank computation complete")
}

// applyArgs overrides the rank parameters with positional
// `d diffPR maxIterations` arguments when supplied.
func applyArgs(cfg *config.PagerankConfig, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) != 3 {
		return fmt.Errorf("expected 3 positional arguments, got %d", len(args))
	}
	damping, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid damping factor %q", args[0])
	}
	convergence, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid convergence threshold %q", args[1])
	}
	maxIterations, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid iteration cap %q", args[2])
	}
	cfg.Damping = damping
	cfg.Convergence = convergence
	cfg.MaxIterations = maxIterations
	return nil
}
