// Package collection reads the on-disk document collection: a manifest
// listing document names plus one <name>.txt file per document. Each
// document file contains two delimited sections, Section-1 with outbound
// link references and Section-2 with body text. Missing or malformed
// section markers simply mean that section contributes nothing.
package collection

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/minisearch-labs/searchrank/pkg/config"
	pkgerrors "github.com/minisearch-labs/searchrank/pkg/errors"
	"github.com/minisearch-labs/searchrank/pkg/logger"
)

const (
	startLinksMarker = "#start Section-1"
	endLinksMarker   = "#end Section-1"
	startBodyMarker  = "#start Section-2"
	endBodyMarker    = "#end Section-2"
)

type section int

const (
	sectionNone section = iota
	sectionLinks
	sectionBody
)

// Loader reads manifests and document files from the collection directory.
type Loader struct {
	cfg    config.CollectionConfig
	logger *slog.Logger
}

// NewLoader creates a Loader for the configured collection directory.
func NewLoader(cfg config.CollectionConfig) *Loader {
	return &Loader{
		cfg:    cfg,
		logger: logger.WithComponent("collection"),
	}
}

// Names reads the collection manifest: a whitespace-separated sequence of
// document names, terminated by end-of-input. Exceeding the configured
// document limit is a fatal configuration error, never silent truncation.
func (l *Loader) Names() ([]string, error) {
	f, err := os.Open(l.cfg.ManifestPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", pkgerrors.ErrManifestNotFound, l.cfg.ManifestPath())
		}
		return nil, fmt.Errorf("opening manifest %s: %w", l.cfg.ManifestPath(), err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		names = append(names, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", l.cfg.ManifestPath(), err)
	}
	if max := l.cfg.MaxDocuments; max > 0 && len(names) > max {
		return nil, fmt.Errorf("%w: %d documents listed, limit %d",
			pkgerrors.ErrCollectionTooLarge, len(names), max)
	}
	return names, nil
}

// Load reads and parses one document file. Link references are deduplicated
// preserving first-occurrence order; self-references are kept here and
// excluded when the link graph is built.
func (l *Loader) Load(name string) (*Document, error) {
	path := l.cfg.DocumentPath(name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", pkgerrors.ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("opening document file %s: %w", path, err)
	}
	defer f.Close()

	doc := &Document{Name: name}
	seenLinks := make(map[string]struct{})
	current := sectionNone

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case startLinksMarker:
			current = sectionLinks
			continue
		case endLinksMarker, endBodyMarker:
			current = sectionNone
			continue
		case startBodyMarker:
			current = sectionBody
			continue
		}
		switch current {
		case sectionLinks:
			for _, ref := range strings.Fields(line) {
				if _, dup := seenLinks[ref]; dup {
					continue
				}
				seenLinks[ref] = struct{}{}
				doc.Links = append(doc.Links, ref)
			}
		case sectionBody:
			doc.Body = append(doc.Body, strings.Fields(line)...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading document file %s: %w", path, err)
	}
	return doc, nil
}

// LoadAll loads every manifest document, failing on the first unreadable
// file. It is used by the rank stage, where graph dimensions are fixed up
// front and every document is required.
func (l *Loader) LoadAll() ([]*Document, error) {
	names, err := l.Names()
	if err != nil {
		return nil, err
	}
	docs := make([]*Document, 0, len(names))
	for _, name := range names {
		doc, err := l.Load(name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
