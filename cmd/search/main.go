package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/minisearch-labs/searchrank/internal/indexer/index"
	"github.com/minisearch-labs/searchrank/internal/pagerank"
	"github.com/minisearch-labs/searchrank/internal/searcher"
	"github.com/minisearch-labs/searchrank/pkg/config"
	"github.com/minisearch-labs/searchrank/pkg/logger"
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

	terms := flag.Args()
	if len(terms) == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [-config file] <search terms>\n", os.Args[0])
		os.Exit(1)
	}

	ix, err := index.Load(cfg.Indexer.OutputPath)
	if err != nil {
		slog.Error("failed to load index artifact", "error", err)
		os.Exit(1)
	}
	table, err := pagerank.ReadTable(cfg.Pagerank.OutputPath)
	if err != nil {
		slog.Error("failed to load rank artifact", "error", err)
		os.Exit(1)
	}

	engine := searcher.NewEngine(ix, table, cfg.Search.MaxResults)
	result, err := engine.Execute(context.Background(), terms, cfg.Search.MaxResults)
	if err != nil {
		slog.Error("search failed", "error", err)
		os.Exit(1)
	}

	for _, match := range result.Results {
		fmt.Println(match.Name)
	}
}
