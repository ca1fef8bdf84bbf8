package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/minisearch-labs/searchrank/pkg/logger"
	"github.com/minisearch-labs/searchrank/pkg/postgres"
)

// Store persists search events in PostgreSQL.
//
// It requires a `search_events` table:
//
//	CREATE TABLE search_events (
//	    id          BIGSERIAL PRIMARY KEY,
//	    event_type  TEXT NOT NULL,
//	    terms       JSONB NOT NULL,
//	    total_hits  INT NOT NULL,
//	    returned    INT NOT NULL,
//	    latency_ms  BIGINT NOT NULL,
//	    cache_hit   BOOLEAN NOT NULL,
//	    request_id  TEXT,
//	    occurred_at TIMESTAMPTZ NOT NULL
//	);
type Store struct {
	db     *postgres.Client
	logger *slog.Logger
}

// NewStore creates a search-event persistence store.
func NewStore(db *postgres.Client) *Store {
	return &Store{
		db:     db,
		logger: logger.WithComponent("analytics-store"),
	}
}

// Save persists one search event.
func (s *Store) Save(ctx context.Context, event SearchEvent) error {
	terms, err := json.Marshal(event.Terms)
	if err != nil {
		return fmt.Errorf("marshaling terms: %w", err)
	}
	_, err = s.db.DB.ExecContext(ctx,
		`INSERT INTO search_events
		     (event_type, terms, total_hits, returned, latency_ms, cache_hit, request_id, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(event.Type), terms, event.TotalHits, event.Returned,
		event.LatencyMs, event.CacheHit, event.RequestID, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("saving search event: %w", err)
	}
	return nil
}

// RecentCount returns the number of events recorded, for health reporting.
func (s *Store) RecentCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM search_events`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting search events: %w", err)
	}
	return count, nil
}
