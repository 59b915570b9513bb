package parse

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testDump = `<mediawiki>
<siteinfo>
<namespaces>
<namespace key="0"></namespace>
<namespace key="14">Category</namespace>
</namespaces>
</siteinfo>
<page>
<title>Apple</title>
<ns>0</ns>
<revision><text>Apple is a [[Fruit]] and a [[Company|tech company]]. See also [[Category:Food]] and [[:Banana]].</text></revision>
</page>
<page>
<title>Fruit</title>
<ns>0</ns>
<revision><text>A fruit grows on [[Apple|Apple trees]].</text></revision>
</page>
<page>
<title>Company</title>
<ns>0</ns>
<revision><text>#REDIRECT [[Tech Company]]</text></revision>
</page>
<page>
<title>Tech Company</title>
<ns>0</ns>
<revision><text>No outbound links here.</text></revision>
</page>
<page>
<title>Food</title>
<ns>14</ns>
<revision><text>irrelevant</text></revision>
</page>
</mediawiki>
`

func TestRunProducesCanonicalEdgeList(t *testing.T) {
	dir := t.TempDir()
	dumpPath := filepath.Join(dir, "dump.xml")
	if err := os.WriteFile(dumpPath, []byte(testDump), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "edges.tsv")

	stats, err := Run(context.Background(), Options{
		DumpPath:   dumpPath,
		OutputPath: outPath,
		NumWorkers: 1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.EdgesEmitted != 3 {
		t.Fatalf("EdgesEmitted = %d, want 3", stats.EdgesEmitted)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	want := []string{
		"source_title\ttarget_title",
		"Apple\tFruit",
		"Apple\tTech Company",
		"Fruit\tApple",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %v, want %d lines %v", len(lines), lines, len(want), want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRunReverseMode(t *testing.T) {
	dir := t.TempDir()
	dumpPath := filepath.Join(dir, "dump.xml")
	if err := os.WriteFile(dumpPath, []byte(testDump), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "edges.tsv")

	_, err := Run(context.Background(), Options{
		DumpPath:   dumpPath,
		OutputPath: outPath,
		Reverse:    true,
		NumWorkers: 1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "Fruit\tApple\n") {
		t.Fatalf("expected a reversed Apple->Fruit edge, got:\n%s", data)
	}
}

func TestRunIgnoreFilterDropsEdges(t *testing.T) {
	dir := t.TempDir()
	dumpPath := filepath.Join(dir, "dump.xml")
	if err := os.WriteFile(dumpPath, []byte(testDump), 0o644); err != nil {
		t.Fatal(err)
	}
	ignoreDir := filepath.Join(dir, "ignore")
	if err := os.Mkdir(ignoreDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(ignoreDir, "block.txt"), []byte("Fruit\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "edges.tsv")

	stats, err := Run(context.Background(), Options{
		DumpPath:   dumpPath,
		OutputPath: outPath,
		IgnoreDir:  ignoreDir,
		NumWorkers: 1,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.EdgesEmitted != 1 {
		t.Fatalf("EdgesEmitted = %d, want 1 (only Apple->Tech Company survives)", stats.EdgesEmitted)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if strings.Contains(string(data), "Fruit") {
		t.Fatalf("expected all Fruit edges to be dropped, got:\n%s", data)
	}
}
