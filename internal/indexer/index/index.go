// Package index implements the in-memory inverted index and its persisted
// text artifact. The index maps each term to the sorted, deduplicated set
// of document names containing it; a full traversal yields all entries in
// ascending lexical term order, which is the persisted contract.
package index

import "sort"

// TermEntry is one term with its ordered document-name set.
type TermEntry struct {
	Term string
	Docs []string
}

// Index is the in-memory inverted index. Document sets are kept sorted at
// insertion time, mirroring the sorted-insert discipline of the persisted
// artifact.
type Index struct {
	terms map[string][]string
}

// New creates an empty Index.
func New() *Index {
	return &Index{terms: make(map[string][]string)}
}

// Add records that doc contains term. Insertion is idempotent per
// (term, doc) pair: repeated occurrences contribute exactly one entry.
func (ix *Index) Add(term, doc string) {
	docs := ix.terms[term]
	i := sort.SearchStrings(docs, doc)
	if i < len(docs) && docs[i] == doc {
		return
	}
	docs = append(docs, "")
	copy(docs[i+1:], docs[i:])
	docs[i] = doc
	ix.terms[term] = docs
}

// Lookup returns the document set for an exact term and whether the term
// exists. The returned slice must not be mutated.
func (ix *Index) Lookup(term string) ([]string, bool) {
	docs, ok := ix.terms[term]
	return docs, ok
}

// Len returns the number of unique terms.
func (ix *Index) Len() int {
	return len(ix.terms)
}

// Snapshot returns all entries in ascending lexical term order.
func (ix *Index) Snapshot() []TermEntry {
	entries := make([]TermEntry, 0, len(ix.terms))
	for term, docs := range ix.terms {
		entries = append(entries, TermEntry{Term: term, Docs: docs})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Term < entries[j].Term
	})
	return entries
}
