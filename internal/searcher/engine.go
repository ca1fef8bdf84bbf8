// Package searcher answers multi-term queries by combining inverted index
// matches with link-graph importance scores.
package searcher

import (
	"context"
	"log/slog"
	"sort"

	"github.com/minisearch-labs/searchrank/internal/indexer/index"
	"github.com/minisearch-labs/searchrank/internal/pagerank"
	"github.com/minisearch-labs/searchrank/pkg/logger"
)

// Match is one ranked query result.
type Match struct {
	Name       string  `json:"name"`
	MatchCount int     `json:"match_count"`
	Score      float64 `json:"score"`
}

// SearchResult is the full response for one query.
type SearchResult struct {
	Terms     []string       `json:"terms"`
	TotalHits int            `json:"total_hits"`
	Results   []Match        `json:"results"`
	TermStats map[string]int `json:"term_stats"`
}

// Engine evaluates queries against loaded artifact snapshots. It never
// mutates them, so a single Engine is safe for concurrent queries.
type Engine struct {
	index      *index.Index
	scores     map[string]float64
	maxResults int
	logger     *slog.Logger
}

// NewEngine creates an Engine over a loaded index and rank table.
func NewEngine(ix *index.Index, table []pagerank.Entry, maxResults int) *Engine {
	scores := make(map[string]float64, len(table))
	for _, e := range table {
		scores[e.Name] = e.Score
	}
	return &Engine{
		index:      ix,
		scores:     scores,
		maxResults: maxResults,
		logger:     logger.WithComponent("search-engine"),
	}
}

// Execute matches the query terms and returns up to limit results ordered
// by match count, then score, then name. Terms are matched literally
// against index terms, exactly as supplied; duplicated query terms count
// once. Documents without a rank-table entry are excluded. An empty result
// is not an error.
func (e *Engine) Execute(ctx context.Context, terms []string, limit int) (*SearchResult, error) {
	if limit <= 0 || limit > e.maxResults {
		limit = e.maxResults
	}

	counts := make(map[string]int)
	termStats := make(map[string]int)
	seenTerms := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, dup := seenTerms[term]; dup {
			continue
		}
		seenTerms[term] = struct{}{}
		docs, ok := e.index.Lookup(term)
		if !ok {
			termStats[term] = 0
			continue
		}
		termStats[term] = len(docs)
		for _, doc := range docs {
			if _, ranked := e.scores[doc]; !ranked {
				continue
			}
			counts[doc]++
		}
	}

	matches := make([]Match, 0, len(counts))
	for doc, count := range counts {
		matches = append(matches, Match{
			Name:       doc,
			MatchCount: count,
			Score:      e.scores[doc],
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].MatchCount != matches[j].MatchCount {
			return matches[i].MatchCount > matches[j].MatchCount
		}
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})

	totalHits := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	e.logger.Debug("query executed",
		"terms", terms,
		"total_hits", totalHits,
		"returned", len(matches),
	)
	return &SearchResult{
		Terms:     terms,
		TotalHits: totalHits,
		Results:   matches,
		TermStats: termStats,
	}, nil
}
