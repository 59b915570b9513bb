package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndContains(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("# comment\nFoo Bar\n\nBaz\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("Qux\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.Len() != 3 {
		t.Fatalf("got %d entries, want 3", set.Len())
	}
	if !set.Contains("Foo Bar") {
		t.Fatal("expected canonical 'Foo Bar' to be in the set")
	}
	if !set.Contains("Qux") {
		t.Fatal("expected Qux from the second file to be in the set")
	}
	if set.Contains("Nope") {
		t.Fatal("did not expect Nope to be in the set")
	}
}

func TestAllowsEdge(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("Blocked\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if set.AllowsEdge("Blocked", "Other") {
		t.Fatal("expected an edge with a blocked source to be dropped")
	}
	if set.AllowsEdge("Other", "Blocked") {
		t.Fatal("expected an edge with a blocked target to be dropped")
	}
	if !set.AllowsEdge("Other", "AnotherOther") {
		t.Fatal("expected an edge between two unblocked titles to pass")
	}
}

func TestEmptySetAllowsEverything(t *testing.T) {
	set := Empty()
	if !set.AllowsEdge("Anything", "Else") {
		t.Fatal("an empty set should allow every edge")
	}
}
