package index

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Write persists the entries as the inverted index artifact: one line per
// term, `<term> <doc1> <doc2> ...`, in the order given. It writes to a
// .tmp file first and renames on success so readers never observe a
// partial artifact.
func Write(path string, entries []TermEntry) error {
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
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%s %s\n", entry.Term, strings.Join(entry.Docs, " ")); err != nil {
			return fmt.Errorf("writing entry for term %q: %w", entry.Term, err)
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
