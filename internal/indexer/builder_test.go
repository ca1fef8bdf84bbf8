package indexer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minisearch-labs/searchrank/internal/collection"
	"github.com/minisearch-labs/searchrank/pkg/config"
	pkgerrors "github.com/minisearch-labs/searchrank/pkg/errors"
)

func writeCollection(t *testing.T, files map[string]string) config.CollectionConfig {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return config.CollectionConfig{
		Dir:          dir,
		Manifest:     "collection.txt",
		MaxDocuments: 1000,
	}
}

func runBuilder(t *testing.T, colCfg config.CollectionConfig, idxCfg config.IndexerConfig) (*Builder, error) {
	t.Helper()
	builder := NewBuilder(idxCfg, collection.NewLoader(colCfg), nil)
	return builder, builder.Run()
}

func TestRunBuildsArtifact(t *testing.T) {
	colCfg := writeCollection(t, map[string]string{
		"collection.txt": "url11 url22",
		"url11.txt": `#start Section-1
url22
#end Section-1
#start Section-2
Mars is red. Mars orbits url22 the Sun,
#end Section-2
`,
		"url22.txt": `#start Section-2
the sun is a star
#end Section-2
`,
	})
	out := filepath.Join(colCfg.Dir, "invertedIndex.txt")
	_, err := runBuilder(t, colCfg, config.IndexerConfig{OutputPath: out, MaxTerms: 1000})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	// "Mars" appears twice in url11 but is listed once; "url22" inside the
	// body is a document reference and never enters the index; "the" and
	// "sun" land in both documents, sorted.
	want := "a url22\nis url11 url22\nmars url11\norbits url11\nred url11\nstar url22\nsun url11 url22\nthe url11 url22\n"
	if string(data) != want {
		t.Errorf("artifact =\n%q\nwant\n%q", string(data), want)
	}
}

func TestRunSkipsUnreadableDocuments(t *testing.T) {
	colCfg := writeCollection(t, map[string]string{
		"collection.txt": "url11 url99",
		"url11.txt": `#start Section-2
alpha
#end Section-2
`,
	})
	out := filepath.Join(colCfg.Dir, "invertedIndex.txt")
	builder, err := runBuilder(t, colCfg, config.IndexerConfig{OutputPath: out, MaxTerms: 1000})
	if err != nil {
		t.Fatalf("Run: %v (missing documents must be skipped, not fatal)", err)
	}
	if _, ok := builder.Index().Lookup("alpha"); !ok {
		t.Error("term from readable document missing after skip")
	}
}

func TestRunTermLimit(t *testing.T) {
	colCfg := writeCollection(t, map[string]string{
		"collection.txt": "url11",
		"url11.txt": `#start Section-2
alpha beta gamma delta
#end Section-2
`,
	})
	out := filepath.Join(colCfg.Dir, "invertedIndex.txt")
	_, err := runBuilder(t, colCfg, config.IndexerConfig{OutputPath: out, MaxTerms: 2})
	if !errors.Is(err, pkgerrors.ErrTooManyTerms) {
		t.Errorf("Run error = %v, want ErrTooManyTerms", err)
	}
}

func TestSkipToken(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"#start", true},
		{"#end", true},
		{"Section-1", true},
		{"Section-2", true},
		{"url11", true},
		{"url9", true},
		{"urls", false},
		{"urban", false},
		{"mars", false},
	}
	for _, tt := range tests {
		if got := skipToken(tt.token); got != tt.want {
			t.Errorf("skipToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}
