package analyze

import (
	"wikigraph/internal/graph"
	"wikigraph/internal/interner"
)

// HistogramRow is one link-histogram output row.
type HistogramRow struct {
	Degree int
	Count  int64
}

// LinkHistogram computes the out-degree histogram of g, sorted ascending
// by degree (§4.2). Degree-0 nodes are included.
func LinkHistogram(g *graph.Graph) []HistogramRow {
	n := g.NodeCount()
	counts := map[int]int64{}
	maxDegree := 0
	for i := 0; i < n; i++ {
		d := g.Degree(interner.ID(i))
		counts[d]++
		if d > maxDegree {
			maxDegree = d
		}
	}
	rows := make([]HistogramRow, 0, len(counts))
	for d := 0; d <= maxDegree; d++ {
		if c, ok := counts[d]; ok {
			rows = append(rows, HistogramRow{Degree: d, Count: c})
		}
	}
	return rows
}
