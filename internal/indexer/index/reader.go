package index

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	pkgerrors "github.com/minisearch-labs/searchrank/pkg/errors"
)

// maxLineSize bounds a single artifact line: one term plus every document
// name in the collection.
const maxLineSize = 1 << 20

// Load reads a persisted inverted index artifact back into an Index.
// Blank lines are skipped; a line's first field is the term and the rest
// its document set.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: index artifact %s", pkgerrors.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("opening index artifact %s: %w", path, err)
	}
	defer f.Close()

	ix := New()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		term := fields[0]
		docs := fields[1:]
		// Artifact document sets are written sorted and deduplicated,
		// so they can be adopted without re-inserting one by one.
		ix.terms[term] = docs
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading index artifact %s: %w", path, err)
	}
	return ix, nil
}
