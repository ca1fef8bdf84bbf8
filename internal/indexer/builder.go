// Package indexer builds the inverted index artifact from the collection.
// It iterates every document's body tokens, discards metadata markers and
// document-reference tokens, normalizes the rest, and records term
// memberships in an ordered inverted index.
package indexer

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/minisearch-labs/searchrank/internal/collection"
	"github.com/minisearch-labs/searchrank/internal/indexer/index"
	"github.com/minisearch-labs/searchrank/internal/indexer/normalizer"
	"github.com/minisearch-labs/searchrank/pkg/config"
	pkgerrors "github.com/minisearch-labs/searchrank/pkg/errors"
	"github.com/minisearch-labs/searchrank/pkg/logger"
	"github.com/minisearch-labs/searchrank/pkg/metrics"
)

// docRefPrefix is the naming prefix of internal document references
// (e.g. url11); tokens of that shape never enter the index.
const docRefPrefix = "url"

// Builder runs the index construction stage.
type Builder struct {
	cfg     config.IndexerConfig
	loader  *collection.Loader
	idx     *index.Index
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewBuilder creates a Builder over the given collection. metrics may be nil
// when the stage runs without a scrape endpoint.
func NewBuilder(cfg config.IndexerConfig, loader *collection.Loader, m *metrics.Metrics) *Builder {
	return &Builder{
		cfg:     cfg,
		loader:  loader,
		idx:     index.New(),
		metrics: m,
		logger:  logger.WithComponent("indexer"),
	}
}

// Run builds the inverted index for every manifest document and persists
// the artifact. A document file that cannot be opened is reported and
// skipped; the remaining documents are still processed.
func (b *Builder) Run() error {
	names, err := b.loader.Names()
	if err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	indexed, skipped := 0, 0
	for _, name := range names {
		doc, err := b.loader.Load(name)
		if err != nil {
			b.logger.Warn("skipping unreadable document", "document", name, "error", err)
			skipped++
			if b.metrics != nil {
				b.metrics.DocsSkippedTotal.Inc()
			}
			continue
		}
		if err := b.indexDocument(doc); err != nil {
			return err
		}
		indexed++
		if b.metrics != nil {
			b.metrics.DocsIndexedTotal.Inc()
		}
	}
	if b.metrics != nil {
		b.metrics.TermsIndexed.Set(float64(b.idx.Len()))
	}

	if err := index.Write(b.cfg.OutputPath, b.idx.Snapshot()); err != nil {
		return fmt.Errorf("persisting index artifact: %w", err)
	}
	b.logger.Info("index artifact written",
		"path", b.cfg.OutputPath,
		"documents", indexed,
		"skipped", skipped,
		"terms", b.idx.Len(),
	)
	return nil
}

// Index returns the in-memory index built so far.
func (b *Builder) Index() *index.Index {
	return b.idx
}

func (b *Builder) indexDocument(doc *collection.Document) error {
	for _, token := range doc.Body {
		if skipToken(token) {
			continue
		}
		term, ok := normalizer.Normalize(token)
		if !ok {
			continue
		}
		b.idx.Add(term, doc.Name)
		if max := b.cfg.MaxTerms; max > 0 && b.idx.Len() > max {
			return fmt.Errorf("%w: limit %d reached while indexing %s",
				pkgerrors.ErrTooManyTerms, max, doc.Name)
		}
	}
	b.logger.Debug("document indexed", "document", doc.Name, "tokens", len(doc.Body))
	return nil
}

// skipToken reports whether a raw token is collection metadata that must be
// discarded before normalization: section start/end markers, section
// labels, and internal document references (docRefPrefix + digit).
func skipToken(token string) bool {
	if strings.HasPrefix(token, "#start") || strings.HasPrefix(token, "#end") {
		return true
	}
	if token == "Section-1" || token == "Section-2" {
		return true
	}
	if rest, ok := strings.CutPrefix(token, docRefPrefix); ok {
		if rest != "" && unicode.IsDigit(rune(rest[0])) {
			return true
		}
	}
	return false
}
