package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/minisearch-labs/searchrank/internal/analytics"
	"github.com/minisearch-labs/searchrank/internal/indexer/index"
	"github.com/minisearch-labs/searchrank/internal/pagerank"
	"github.com/minisearch-labs/searchrank/internal/searcher"
	"github.com/minisearch-labs/searchrank/internal/searcher/cache"
	"github.com/minisearch-labs/searchrank/internal/searcher/handler"
	"github.com/minisearch-labs/searchrank/pkg/config"
	"github.com/minisearch-labs/searchrank/pkg/health"
	"github.com/minisearch-labs/searchrank/pkg/logger"
	"github.com/minisearch-labs/searchrank/pkg/metrics"
	"github.com/minisearch-labs/searchrank/pkg/middleware"
	pkgpostgres "github.com/minisearch-labs/searchrank/pkg/postgres"
	pkgredis "github.com/minisearch-labs/searchrank/pkg/redis"
	"golang.org/x/sync/errgroup"
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
	slog.Info("starting search service", "port", cfg.Server.Port)

	// Both artifacts are immutable snapshots; load them side by side.
	var ix *index.Index
	var table []pagerank.Entry
	var g errgroup.Group
	g.Go(func() error {
		var err error
		ix, err = index.Load(cfg.Indexer.OutputPath)
		return err
	})
	g.Go(func() error {
		var err error
		table, err = pagerank.ReadTable(cfg.Pagerank.OutputPath)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("failed to load artifacts", "error", err)
		os.Exit(1)
	}
	slog.Info("artifacts loaded",
		"terms", ix.Len(),
		"ranked_documents", len(table),
	)

	engine := searcher.NewEngine(ix, table, cfg.Search.MaxResults)

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, search caching disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("search cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var collector *analytics.Collector
	var pgClient *pkgpostgres.Client
	var store *analytics.Store
	if cfg.Postgres.Enabled {
		pgClient, err = pkgpostgres.New(cfg.Postgres)
		if err != nil {
			slog.Warn("postgres unavailable, query analytics disabled", "error", err)
		} else {
			defer pgClient.Close()
			store = analytics.NewStore(pgClient)
			collector = analytics.NewCollector(store, 1000)
			collector.Start(ctx)
			defer collector.Close()
			slog.Info("query analytics enabled", "host", cfg.Postgres.Host)
		}
	}

	m := metrics.New()
	var metricsShutdown func(context.Context) error
	if cfg.Metrics.Enabled {
		metricsShutdown = metrics.StartServer(cfg.Metrics.Port)
	}

	checker := health.NewChecker()
	checker.Register("artifacts", func(ctx context.Context) health.Result {
		if ix.Len() > 0 && len(table) > 0 {
			return health.Result{
				Status: health.StatusUp,
				Detail: fmt.Sprintf("%d terms, %d ranked documents", ix.Len(), len(table)),
			}
		}
		return health.Result{Status: health.StatusDown, Detail: "artifacts empty"}
	})
	checker.Register("redis", func(ctx context.Context) health.Result {
		if redisClient == nil {
			return health.Result{Status: health.StatusDegraded, Detail: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.Result{Status: health.StatusDegraded, Detail: err.Error()}
		}
		return health.Result{Status: health.StatusUp}
	})
	checker.Register("postgres", func(ctx context.Context) health.Result {
		if store == nil {
			return health.Result{Status: health.StatusDegraded, Detail: "not configured"}
		}
		if err := pgClient.Ping(ctx); err != nil {
			return health.Result{Status: health.StatusDegraded, Detail: err.Error()}
		}
		events, err := store.RecentCount(ctx)
		if err != nil {
			return health.Result{Status: health.StatusDegraded, Detail: err.Error()}
		}
		return health.Result{
			Status: health.StatusUp,
			Detail: fmt.Sprintf("%d events recorded", events),
		}
	})

	h := handler.New(engine, queryCache, collector, m, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if metricsShutdown != nil {
			if err := metricsShutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}
