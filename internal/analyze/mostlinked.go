package analyze

import (
	"sort"

	"wikigraph/internal/graph"
	"wikigraph/internal/interner"
)

// MostLinkedRow is one most-linked output row.
type MostLinkedRow struct {
	Title  string
	Degree int
}

// MostLinked ranks nodes by out-degree descending, title ascending as
// tie-break (§4.2). topK <= 0 means the full ranking.
func MostLinked(g *graph.Graph, topK int) []MostLinkedRow {
	n := g.NodeCount()
	rows := make([]MostLinkedRow, n)
	for i := 0; i < n; i++ {
		id := interner.ID(i)
		rows[i] = MostLinkedRow{Title: g.Titles.Title(id), Degree: g.Degree(id)}
	}
	sort.Slice(rows, func(a, b int) bool {
		if rows[a].Degree != rows[b].Degree {
			return rows[a].Degree > rows[b].Degree
		}
		return rows[a].Title < rows[b].Title
	})
	if topK > 0 && topK < len(rows) {
		rows = rows[:topK]
	}
	return rows
}
