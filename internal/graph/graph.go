// Package graph implements spec §4.2's edge-list loader and the
// compressed-sparse-row adjacency structure the analyze stage runs over.
package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"wikigraph/internal/interner"
)

// header is the exact first line every edge-list TSV must carry (§3).
const header = "source_title\ttarget_title"

// Graph is a directed adjacency structure over N interned nodes and M
// edges: Offsets has length N+1, Neighbors has length M, and
// Neighbors[Offsets[i]:Offsets[i+1]] is node i's sorted, deduplicated
// out-neighbor list.
type Graph struct {
	Titles    *interner.Interner
	Offsets   []int32
	Neighbors []interner.ID
}

// NodeCount returns N.
func (g *Graph) NodeCount() int {
	return len(g.Offsets) - 1
}

// EdgeCount returns M, after dedup.
func (g *Graph) EdgeCount() int {
	return len(g.Neighbors)
}

// Degree returns the out-degree of node id.
func (g *Graph) Degree(id interner.ID) int {
	return int(g.Offsets[id+1] - g.Offsets[id])
}

// NeighborsOf returns the sorted out-neighbor slice for node id. The caller
// must not mutate it.
func (g *Graph) NeighborsOf(id interner.ID) []interner.ID {
	return g.Neighbors[g.Offsets[id]:g.Offsets[id+1]]
}

// Load reads a §3 edge-list TSV into a Graph via two passes, per §4.2:
// pass 1 interns both columns and counts per-source out-degree; pass 2
// fills Neighbors; each adjacency run is then sorted and deduplicated.
// Load refuses a file whose header is missing or malformed, and tolerates
// arbitrarily long titles (it never uses a fixed-size line scanner).
func Load(path string) (*Graph, error) {
	in := interner.New(1 << 16)

	rawDegree, err := countDegrees(path, in)
	if err != nil {
		return nil, err
	}
	in.Freeze()
	n := in.Len()
	// Nodes interned after the last source seen (targets only) have no
	// degree entry yet; they have out-degree 0.
	for len(rawDegree) < n {
		rawDegree = append(rawDegree, 0)
	}

	offsets := make([]int32, n+1)
	for i := 0; i < n; i++ {
		offsets[i+1] = offsets[i] + rawDegree[i]
	}

	rawNeighbors := make([]interner.ID, offsets[n])
	if err := fillNeighbors(path, in, offsets, rawNeighbors); err != nil {
		return nil, err
	}

	finalOffsets, finalNeighbors := sortDedup(offsets, rawNeighbors)
	return &Graph{Titles: in, Offsets: finalOffsets, Neighbors: finalNeighbors}, nil
}

// openChecked opens path and validates the mandatory header line,
// returning a reader positioned just after it.
func openChecked(path string) (*os.File, *bufio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("graph: opening %s: %w", path, err)
	}
	r := bufio.NewReaderSize(f, 1<<20)
	line, err := readLine(r)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("graph: %s: missing header: %w", path, err)
	}
	if line != header {
		f.Close()
		return nil, nil, fmt.Errorf("graph: %s: malformed header %q, want %q", path, line, header)
	}
	return f, r, nil
}

// readLine reads one line without a fixed maximum length, trimming the
// trailing newline (and a preceding carriage return, if present).
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func countDegrees(path string, in *interner.Interner) ([]int32, error) {
	f, r, err := openChecked(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var degree []int32
	for {
		line, err := readLine(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("graph: reading %s: %w", path, err)
		}
		source, target, ok := splitRow(line)
		if !ok {
			return nil, fmt.Errorf("graph: %s: malformed row %q", path, line)
		}
		sourceID := in.Intern(source)
		in.Intern(target)
		for int(sourceID) >= len(degree) {
			degree = append(degree, 0)
		}
		degree[sourceID]++
	}
	return degree, nil
}

func fillNeighbors(path string, in *interner.Interner, offsets []int32, neighbors []interner.ID) error {
	f, r, err := openChecked(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cursor := make([]int32, len(offsets)-1)
	copy(cursor, offsets[:len(offsets)-1])

	for {
		line, err := readLine(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("graph: reading %s: %w", path, err)
		}
		source, target, ok := splitRow(line)
		if !ok {
			return fmt.Errorf("graph: %s: malformed row %q", path, line)
		}
		sourceID, _ := in.Lookup(source)
		targetID, _ := in.Lookup(target)
		neighbors[cursor[sourceID]] = targetID
		cursor[sourceID]++
	}
	return nil
}

func splitRow(line string) (source, target string, ok bool) {
	i := strings.IndexByte(line, '\t')
	if i < 0 {
		return "", "", false
	}
	source = line[:i]
	if strings.IndexByte(line[i+1:], '\t') >= 0 {
		return "", "", false
	}
	target = line[i+1:]
	if source == "" || target == "" {
		return "", "", false
	}
	return source, target, true
}

// sortDedup sorts and deduplicates each node's adjacency run in place,
// then compacts the (now shorter) runs into dense final arrays.
func sortDedup(rawOffsets []int32, rawNeighbors []interner.ID) ([]int32, []interner.ID) {
	n := len(rawOffsets) - 1
	finalOffsets := make([]int32, n+1)
	writePos := int32(0)

	for i := 0; i < n; i++ {
		run := rawNeighbors[rawOffsets[i]:rawOffsets[i+1]]
		sort.Slice(run, func(a, b int) bool { return run[a] < run[b] })

		dedupLen := 0
		for j, id := range run {
			if j == 0 || id != run[j-1] {
				run[dedupLen] = id
				dedupLen++
			}
		}
		copy(rawNeighbors[writePos:], run[:dedupLen])
		writePos += int32(dedupLen)
		finalOffsets[i+1] = writePos
	}
	return finalOffsets, rawNeighbors[:writePos]
}
