package analyze

import (
	"bufio"
	"math/rand/v2"
	"os"

	"wikigraph/internal/graph"
	"wikigraph/internal/interner"
)

// RootSpec is one requested step-groups root: either resolved to a node
// already present in the graph, or not (per §4.2, an unresolved root
// still yields an output row, just one with no step columns).
type RootSpec struct {
	Title string
	ID    interner.ID
	Known bool
}

// MostLinkedRoots selects the top K nodes by out-degree, ties broken by
// title ascending, as root candidates for --use-most-linked.
func MostLinkedRoots(g *graph.Graph, k int) []RootSpec {
	rows := MostLinked(g, k)
	specs := make([]RootSpec, len(rows))
	for i, row := range rows {
		id, _ := g.Titles.Lookup(row.Title)
		specs[i] = RootSpec{Title: row.Title, ID: id, Known: true}
	}
	return specs
}

// RandomRoots samples K distinct nodes uniformly without replacement,
// using a seeded PCG generator so a run is reproducible given the same
// seed (§4.2's Open-Question resolution: expose --seed).
func RandomRoots(g *graph.Graph, k int, seed uint64) []RootSpec {
	n := g.NodeCount()
	if k > n {
		k = n
	}
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i)
	}
	r := rand.New(rand.NewPCG(seed, ^seed))
	for i := 0; i < k; i++ {
		j := i + r.IntN(n-i)
		ids[i], ids[j] = ids[j], ids[i]
	}
	specs := make([]RootSpec, k)
	for i := 0; i < k; i++ {
		id := interner.ID(ids[i])
		specs[i] = RootSpec{Title: g.Titles.Title(id), ID: id, Known: true}
	}
	return specs
}

// LoadRootsFile reads one title per line from path, resolving each
// against g. Titles absent from the graph are returned with Known=false,
// in their original file order, alongside the resolved ones, per §4.2:
// "titles not present in the current graph are reported as warnings and
// yield a row with only the root title and no step sizes."
func LoadRootsFile(g *graph.Graph, path string) ([]RootSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var specs []RootSpec
	scanner := bufio.NewScanner(f)
	const maxLine = 8 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)
	for scanner.Scan() {
		title := scanner.Text()
		if title == "" {
			continue
		}
		if id, ok := g.Titles.Lookup(title); ok {
			specs = append(specs, RootSpec{Title: title, ID: id, Known: true})
		} else {
			specs = append(specs, RootSpec{Title: title, Known: false})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return specs, nil
}
