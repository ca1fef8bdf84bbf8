package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pagerank.Damping != 0.85 {
		t.Errorf("default damping = %g, want 0.85", cfg.Pagerank.Damping)
	}
	if cfg.Pagerank.MaxIterations != 100 {
		t.Errorf("default maxIterations = %d, want 100", cfg.Pagerank.MaxIterations)
	}
	if cfg.Search.MaxResults != 30 {
		t.Errorf("default maxResults = %d, want 30", cfg.Search.MaxResults)
	}
	if cfg.Collection.MaxDocuments != 1000 {
		t.Errorf("default maxDocuments = %d, want 1000", cfg.Collection.MaxDocuments)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
collection:
  dir: /srv/crawl
pagerank:
  damping: 0.5
  maxIterations: 25
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Collection.Dir != "/srv/crawl" {
		t.Errorf("dir = %q, want /srv/crawl", cfg.Collection.Dir)
	}
	if cfg.Pagerank.Damping != 0.5 {
		t.Errorf("damping = %g, want 0.5", cfg.Pagerank.Damping)
	}
	// Unset fields keep their defaults.
	if cfg.Pagerank.Convergence != 0.0001 {
		t.Errorf("convergence = %g, want default 0.0001", cfg.Pagerank.Convergence)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SR_COLLECTION_DIR", "/data/pages")
	t.Setenv("SR_PAGERANK_DAMPING", "0.6")
	t.Setenv("SR_SEARCH_MAX_RESULTS", "10")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Collection.Dir != "/data/pages" {
		t.Errorf("dir = %q, want /data/pages", cfg.Collection.Dir)
	}
	if cfg.Pagerank.Damping != 0.6 {
		t.Errorf("damping = %g, want 0.6", cfg.Pagerank.Damping)
	}
	if cfg.Search.MaxResults != 10 {
		t.Errorf("maxResults = %d, want 10", cfg.Search.MaxResults)
	}
}

func TestPagerankValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PagerankConfig
		wantErr bool
	}{
		{"valid", PagerankConfig{Damping: 0.85, Convergence: 0.0001, MaxIterations: 100}, false},
		{"damping edge values", PagerankConfig{Damping: 1, Convergence: 0, MaxIterations: 1}, false},
		{"damping too high", PagerankConfig{Damping: 1.5, Convergence: 0.0001, MaxIterations: 100}, true},
		{"damping negative", PagerankConfig{Damping: -0.1, Convergence: 0.0001, MaxIterations: 100}, true},
		{"negative threshold", PagerankConfig{Damping: 0.85, Convergence: -1, MaxIterations: 100}, true},
		{"zero iterations", PagerankConfig{Damping: 0.85, Convergence: 0.0001, MaxIterations: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDocumentPath(t *testing.T) {
	cfg := CollectionConfig{Dir: "/srv/crawl", Manifest: "collection.txt"}
	if got := cfg.DocumentPath("url11"); got != filepath.Join("/srv/crawl", "url11.txt") {
		t.Errorf("DocumentPath = %q", got)
	}
	if got := cfg.ManifestPath(); got != filepath.Join("/srv/crawl", "collection.txt") {
		t.Errorf("ManifestPath = %q", got)
	}
}
