package collection

// Document is one named unit of the pre-crawled collection. Body holds the
// whitespace-separated tokens of Section-2, Links the outbound document-name
// references of Section-1 with duplicates collapsed in first-occurrence
// order. Documents are immutable once loaded.
type Document struct {
	Name  string
	Body  []string
	Links []string
}
