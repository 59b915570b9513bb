package analyze

import (
	"context"

	"golang.org/x/sync/errgroup"

	"wikigraph/internal/graph"
	"wikigraph/internal/interner"
)

// StepGroupsRow is one step-groups output row. Steps is nil for a root
// RootSpec that was not Known, per §4.2: "yield a row with only the root
// title and no step sizes."
type StepGroupsRow struct {
	Title string
	Steps []int64
}

// StepGroups runs one BFS per known root in roots, in parallel (grounded
// on the teacher's errgroup worker-pool shape), and returns one row per
// root in the same order roots was given. Unknown roots pass through
// untouched.
func StepGroups(ctx context.Context, g *graph.Graph, roots []RootSpec) ([]StepGroupsRow, error) {
	out := make([]StepGroupsRow, len(roots))
	group, gctx := errgroup.WithContext(ctx)
	for i, spec := range roots {
		i, spec := i, spec
		if !spec.Known {
			out[i] = StepGroupsRow{Title: spec.Title}
			continue
		}
		group.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out[i] = StepGroupsRow{Title: spec.Title, Steps: bfsSteps(g, spec.ID)}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// bfsSteps runs one frontier-by-frontier breadth-first traversal from
// root, returning step0_size (always 1), then the size of each
// subsequent frontier, stopping once a frontier is empty. Within a
// frontier, neighbors are visited in ascending ID order because the
// graph's adjacency lists are already sorted (internal/graph.Load).
func bfsSteps(g *graph.Graph, root interner.ID) []int64 {
	n := g.NodeCount()
	visited := newBitset(n)
	visited.set(int32(root))

	steps := []int64{1}
	frontier := []interner.ID{root}
	for len(frontier) > 0 {
		var next []interner.ID
		for _, u := range frontier {
			for _, v := range g.NeighborsOf(u) {
				if !visited.has(int32(v)) {
					visited.set(int32(v))
					next = append(next, v)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		steps = append(steps, int64(len(next)))
		frontier = next
	}
	return steps
}
