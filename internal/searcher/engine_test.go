package searcher

import (
	"context"
	"fmt"
	"testing"

	"github.com/minisearch-labs/searchrank/internal/indexer/index"
	"github.com/minisearch-labs/searchrank/internal/pagerank"
)

func newTestEngine(postings map[string][]string, table []pagerank.Entry, maxResults int) *Engine {
	ix := index.New()
	for term, docs := range postings {
		for _, doc := range docs {
			ix.Add(term, doc)
		}
	}
	return NewEngine(ix, table, maxResults)
}

func names(matches []Match) []string {
	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.Name
	}
	return result
}

func TestExecuteRanksByMatchCountThenScore(t *testing.T) {
	engine := newTestEngine(
		map[string][]string{
			"cat": {"urlA", "urlB"},
			"dog": {"urlB", "urlC"},
		},
		[]pagerank.Entry{
			{Name: "urlA", Score: 0.5},
			{Name: "urlB", Score: 0.3},
			{Name: "urlC", Score: 0.2},
		},
		30,
	)

	result, err := engine.Execute(context.Background(), []string{"cat", "dog"}, 30)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := names(result.Results)
	want := []string{"urlB", "urlA", "urlC"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if result.Results[0].MatchCount != 2 {
		t.Errorf("urlB match count = %d, want 2", result.Results[0].MatchCount)
	}
	if result.TotalHits != 3 {
		t.Errorf("TotalHits = %d, want 3", result.TotalHits)
	}
}

func TestExecuteMatchesTermsLiterally(t *testing.T) {
	engine := newTestEngine(
		map[string][]string{"cat": {"urlA"}},
		[]pagerank.Entry{{Name: "urlA", Score: 0.5}},
		30,
	)

	result, err := engine.Execute(context.Background(), []string{"Cat"}, 30)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.TotalHits != 0 {
		t.Errorf("query \"Cat\" matched %d documents against lowercase index, want 0", result.TotalHits)
	}
}

func TestExecuteCountsDistinctTermsOnce(t *testing.T) {
	engine := newTestEngine(
		map[string][]string{"cat": {"urlA"}},
		[]pagerank.Entry{{Name: "urlA", Score: 0.5}},
		30,
	)

	result, err := engine.Execute(context.Background(), []string{"cat", "cat", "cat"}, 30)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.Results[0].MatchCount != 1 {
		t.Errorf("repeated query term counted %d times, want 1", result.Results[0].MatchCount)
	}
}

func TestExecuteExcludesUnrankedDocuments(t *testing.T) {
	engine := newTestEngine(
		map[string][]string{"cat": {"urlA", "urlB"}},
		[]pagerank.Entry{{Name: "urlA", Score: 0.5}},
		30,
	)

	result, err := engine.Execute(context.Background(), []string{"cat"}, 30)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := names(result.Results)
	if len(got) != 1 || got[0] != "urlA" {
		t.Errorf("results = %v, want [urlA] (urlB has no rank entry)", got)
	}
}

func TestExecuteNameTieBreak(t *testing.T) {
	engine := newTestEngine(
		map[string][]string{"cat": {"urlB", "urlA", "urlC"}},
		[]pagerank.Entry{
			{Name: "urlA", Score: 0.3},
			{Name: "urlB", Score: 0.3},
			{Name: "urlC", Score: 0.3},
		},
		30,
	)

	result, err := engine.Execute(context.Background(), []string{"cat"}, 30)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := names(result.Results)
	want := []string{"urlA", "urlB", "urlC"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("tie order = %v, want %v", got, want)
		}
	}
}

func TestExecuteCapsResults(t *testing.T) {
	postings := map[string][]string{"cat": {}}
	table := make([]pagerank.Entry, 0, 40)
	for i := 0; i < 40; i++ {
		name := fmt.Sprintf("url%02d", i)
		postings["cat"] = append(postings["cat"], name)
		table = append(table, pagerank.Entry{Name: name, Score: float64(i) / 100})
	}
	engine := newTestEngine(postings, table, 30)

	result, err := engine.Execute(context.Background(), []string{"cat"}, 0)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Results) != 30 {
		t.Errorf("returned %d results, want 30", len(result.Results))
	}
	if result.TotalHits != 40 {
		t.Errorf("TotalHits = %d, want 40", result.TotalHits)
	}
	if result.Results[0].Name != "url39" {
		t.Errorf("top result = %s, want url39 (highest score)", result.Results[0].Name)
	}
}

func TestExecuteNoMatches(t *testing.T) {
	engine := newTestEngine(
		map[string][]string{"cat": {"urlA"}},
		[]pagerank.Entry{{Name: "urlA", Score: 0.5}},
		30,
	)

	result, err := engine.Execute(context.Background(), []string{"unicorn"}, 30)
	if err != nil {
		t.Fatalf("Execute: %v (no matches is not an error)", err)
	}
	if len(result.Results) != 0 {
		t.Errorf("results = %v, want none", result.Results)
	}
}
