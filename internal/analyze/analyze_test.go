package analyze

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"wikigraph/internal/graph"
)

// buildGraph loads the worked-example graph from spec.md §8.4:
// A->B, A->C, B->C, B->D.
func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.tsv")
	content := "source_title\ttarget_title\n" +
		"A\tB\n" +
		"A\tC\n" +
		"B\tC\n" +
		"B\tD\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := graph.Load(path)
	if err != nil {
		t.Fatalf("graph.Load: %v", err)
	}
	return g
}

func TestLinkHistogramMatchesWorkedExample(t *testing.T) {
	g := buildGraph(t)
	rows := LinkHistogram(g)
	want := map[int]int64{0: 2, 2: 2}
	got := map[int]int64{}
	for _, r := range rows {
		got[r.Degree] = r.Count
	}
	for d, c := range want {
		if got[d] != c {
			t.Fatalf("degree %d: got %d, want %d (rows=%v)", d, got[d], c, rows)
		}
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Degree <= rows[i-1].Degree {
			t.Fatalf("rows not ascending by degree: %v", rows)
		}
	}
}

func TestMostLinkedMatchesWorkedExample(t *testing.T) {
	g := buildGraph(t)
	rows := MostLinked(g, 2)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2: %v", len(rows), rows)
	}
	titles := map[string]int{rows[0].Title: rows[0].Degree, rows[1].Title: rows[1].Degree}
	if titles["A"] != 2 || titles["B"] != 2 {
		t.Fatalf("expected A and B tied at degree 2, got %v", rows)
	}
	if rows[0].Title != "A" || rows[1].Title != "B" {
		t.Fatalf("expected tie-break by title ascending (A before B), got %v", rows)
	}
}

func TestStepGroupsMatchesWorkedExample(t *testing.T) {
	g := buildGraph(t)
	aID, ok := g.Titles.Lookup("A")
	if !ok {
		t.Fatal("A not interned")
	}
	roots := []RootSpec{{Title: "A", ID: aID, Known: true}}
	rows, err := StepGroups(context.Background(), g, roots)
	if err != nil {
		t.Fatalf("StepGroups: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := []int64{1, 2, 1}
	got := rows[0].Steps
	if len(got) != len(want) {
		t.Fatalf("steps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("steps = %v, want %v", got, want)
		}
	}
}

func TestStepGroupsUnknownRootYieldsNoSteps(t *testing.T) {
	g := buildGraph(t)
	roots := []RootSpec{{Title: "Z", Known: false}}
	rows, err := StepGroups(context.Background(), g, roots)
	if err != nil {
		t.Fatalf("StepGroups: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "Z" || rows[0].Steps != nil {
		t.Fatalf("got %+v, want a bare Z row with no steps", rows)
	}
}

func TestRandomRootsAreDistinct(t *testing.T) {
	g := buildGraph(t)
	roots := RandomRoots(g, 3, 42)
	if len(roots) != 3 {
		t.Fatalf("got %d roots, want 3", len(roots))
	}
	seen := map[string]bool{}
	for _, r := range roots {
		if seen[r.Title] {
			t.Fatalf("duplicate root %q in %v", r.Title, roots)
		}
		seen[r.Title] = true
	}
}

func TestRandomRootsReproducibleWithSameSeed(t *testing.T) {
	g := buildGraph(t)
	a := RandomRoots(g, 4, 7)
	b := RandomRoots(g, 4, 7)
	for i := range a {
		if a[i].Title != b[i].Title {
			t.Fatalf("same seed produced different roots: %v vs %v", a, b)
		}
	}
}

func TestLoadRootsFileReportsUnknown(t *testing.T) {
	g := buildGraph(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "roots.txt")
	if err := os.WriteFile(path, []byte("A\nZ\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	specs, err := LoadRootsFile(g, path)
	if err != nil {
		t.Fatalf("LoadRootsFile: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if !specs[0].Known || specs[0].Title != "A" {
		t.Fatalf("specs[0] = %+v, want known A", specs[0])
	}
	if specs[1].Known || specs[1].Title != "Z" {
		t.Fatalf("specs[1] = %+v, want unknown Z", specs[1])
	}
}

func TestWriteLinkHistogramRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hist.tsv")
	rows := []HistogramRow{{Degree: 0, Count: 2}, {Degree: 2, Count: 2}}
	if err := WriteLinkHistogram(path, rows); err != nil {
		t.Fatalf("WriteLinkHistogram: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want := "degree\tcount\n0\t2\n2\t2\n"
	if string(data) != want {
		t.Fatalf("got %q, want %q", data, want)
	}
}
