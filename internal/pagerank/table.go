package pagerank

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	pkgerrors "github.com/minisearch-labs/searchrank/pkg/errors"
)

// WriteTable persists the rank artifact: one `<name>, <outDegree>, <score>`
// line per document with seven decimal digits, in the order given. Like the
// index artifact it is written to a .tmp file and renamed on success.
func WriteTable(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating artifact directory: %w", err)
		}
	}
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp artifact file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s, %d, %.7f\n", e.Name, e.OutDegree, e.Score); err != nil {
			return fmt.Errorf("writing rank entry for %s: %w", e.Name, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing artifact: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing artifact: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming artifact: %w", err)
	}
	return nil
}

// ReadTable loads a persisted rank artifact. Lines that do not parse into a
// (name, outDegree, score) triple are silently skipped.
func ReadTable(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: rank artifact %s", pkgerrors.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("opening rank artifact %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), ", ", 3)
		if len(parts) != 3 {
			continue
		}
		outDegree, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:      parts[0],
			OutDegree: outDegree,
			Score:     score,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rank artifact %s: %w", path, err)
	}
	return entries, nil
}
