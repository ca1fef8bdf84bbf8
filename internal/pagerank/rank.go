package pagerank

import (
	"math"
	"sort"
)

// Entry is one row of the rank table.
type Entry struct {
	Name      string
	OutDegree int
	Score     float64
}

// Stats reports how the iteration terminated.
type Stats struct {
	Iterations int
	FinalDiff  float64
}

// Compute runs the power iteration over g and returns the rank table sorted
// by descending score, ties broken by ascending name so artifacts are
// deterministic.
//
// Each round reads from a full snapshot of the previous scores and writes a
// fresh vector; updating in place would change the numerical results. A
// node with outgoing links contributes prev/outDegree to each target; a
// dangling node spreads prev/N over all N nodes, itself included, which
// keeps the total score mass at 1.
func Compute(g *Graph, damping, threshold float64, maxIterations int) ([]Entry, Stats) {
	n := g.Size()
	if n == 0 {
		return nil, Stats{}
	}

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}
	prev := make([]float64, n)

	var stats Stats
	for stats.Iterations < maxIterations {
		copy(prev, scores)

		var danglingMass float64
		for j := 0; j < n; j++ {
			if g.OutDegree[j] == 0 {
				danglingMass += prev[j] / float64(n)
			}
		}

		base := (1-damping)/float64(n) + damping*danglingMass
		for i := range scores {
			scores[i] = base
		}
		for j := 0; j < n; j++ {
			if g.OutDegree[j] == 0 {
				continue
			}
			share := damping * prev[j] / float64(g.OutDegree[j])
			for _, i := range g.Out[j] {
				scores[i] += share
			}
		}

		diff := 0.0
		for i := range scores {
			diff += math.Abs(scores[i] - prev[i])
		}
		stats.Iterations++
		stats.FinalDiff = diff
		if diff < threshold {
			break
		}
	}

	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = Entry{
			Name:      g.Names[i],
			OutDegree: g.OutDegree[i],
			Score:     scores[i],
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, stats
}
