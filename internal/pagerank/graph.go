// Package pagerank builds the directed link graph over the collection and
// computes per-document importance scores by power iteration.
package pagerank

import "github.com/minisearch-labs/searchrank/internal/collection"

// Graph is the directed link graph. Nodes follow manifest order; an edge
// i -> j exists iff document i's link section names document j and i != j.
// Link references to names outside the collection are ignored.
type Graph struct {
	Names     []string
	Out       [][]int
	OutDegree []int
}

// BuildGraph constructs the link graph for the given documents. Out-degree
// counts distinct outgoing edges only; self-links and duplicate references
// contribute nothing.
func BuildGraph(docs []*collection.Document) *Graph {
	n := len(docs)
	g := &Graph{
		Names:     make([]string, n),
		Out:       make([][]int, n),
		OutDegree: make([]int, n),
	}
	byName := make(map[string]int, n)
	for i, doc := range docs {
		g.Names[i] = doc.Name
		byName[doc.Name] = i
	}
	for i, doc := range docs {
		seen := make(map[int]struct{}, len(doc.Links))
		for _, ref := range doc.Links {
			j, ok := byName[ref]
			if !ok || j == i {
				continue
			}
			if _, dup := seen[j]; dup {
				continue
			}
			seen[j] = struct{}{}
			g.Out[i] = append(g.Out[i], j)
		}
		g.OutDegree[i] = len(g.Out[i])
	}
	return g
}

// Size returns the number of nodes.
func (g *Graph) Size() int {
	return len(g.Names)
}
