package pagerank

import (
	"fmt"
	"log/slog"

	"github.com/minisearch-labs/searchrank/internal/collection"
	"github.com/minisearch-labs/searchrank/pkg/config"
	"github.com/minisearch-labs/searchrank/pkg/logger"
	"github.com/minisearch-labs/searchrank/pkg/metrics"
)

// Ranker runs the link-graph rank stage: load every document, build the
// graph, iterate, persist the rank table. Any unreadable document file is
// fatal here because the graph dimensions are fixed up front.
type Ranker struct {
	cfg     config.PagerankConfig
	loader  *collection.Loader
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRanker creates a Ranker. metrics may be nil when the stage runs
// without a scrape endpoint.
func NewRanker(cfg config.PagerankConfig, loader *collection.Loader, m *metrics.Metrics) *Ranker {
	return &Ranker{
		cfg:     cfg,
		loader:  loader,
		metrics: m,
		logger:  logger.WithComponent("pagerank"),
	}
}

// Run computes and persists the rank artifact.
func (r *Ranker) Run() error {
	if err := r.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid rank parameters: %w", err)
	}
	docs, err := r.loader.LoadAll()
	if err != nil {
		return fmt.Errorf("loading collection: %w", err)
	}

	g := BuildGraph(docs)
	entries, stats := Compute(g, r.cfg.Damping, r.cfg.Convergence, r.cfg.MaxIterations)
	if r.metrics != nil {
		r.metrics.PagerankIterations.Set(float64(stats.Iterations))
		r.metrics.PagerankFinalDiff.Set(stats.FinalDiff)
	}

	if err := WriteTable(r.cfg.OutputPath, entries); err != nil {
		return fmt.Errorf("persisting rank artifact: %w", err)
	}
	r.logger.Info("rank artifact written",
		"path", r.cfg.OutputPath,
		"documents", g.Size(),
		"iterations", stats.Iterations,
		"final_diff", stats.FinalDiff,
		"damping", r.cfg.Damping,
	)
	return nil
}
