// SPDX-License-Identifier: MIT

// Command wikigraph extracts a Wikipedia link graph from a MediaWiki
// dump and runs degree/reachability analyses over it. It is a thin
// wrapper: all real logic lives in internal/parse, internal/graph, and
// internal/analyze.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"wikigraph/internal/analyze"
	"wikigraph/internal/graph"
	"wikigraph/internal/parse"
	"wikigraph/internal/summary"
)

var logger = log.New(os.Stderr, "wikigraph: ", log.Ldate|log.Ltime)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "analyze":
		err = runAnalyze(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Printf("%v", err)
		fmt.Fprintf(os.Stderr, "wikigraph: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wikigraph parse --output PATH [--ignore-dir PATH] [-r|--reverse] DUMP_PATH")
	fmt.Fprintln(os.Stderr, "       wikigraph analyze --input PATH --output PATH <link-histogram|most-linked|step-groups> [flags]")
}

func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	output := fs.String("output", "", "path to write the canonical edge-list TSV (required)")
	ignoreDir := fs.String("ignore-dir", "", "directory of canonical titles to drop (optional)")
	reverse := fs.Bool("reverse", false, "emit the transpose graph (target\\tsource)")
	fs.BoolVar(reverse, "r", false, "shorthand for --reverse")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" || fs.NArg() != 1 {
		usage()
		return fmt.Errorf("parse: --output and a DUMP_PATH are both required")
	}
	dumpPath := fs.Arg(0)

	started := time.Now()
	stats, err := parse.Run(context.Background(), parse.Options{
		DumpPath:   dumpPath,
		OutputPath: *output,
		IgnoreDir:  *ignoreDir,
		Reverse:    *reverse,
	})
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	s := summary.New(started)
	s.AddPagesScanned(stats.PagesScanned)
	s.AddArticlesFound(stats.ArticlesFound)
	s.AddRedirectsFound(stats.RedirectsFound)
	s.AddEdgesEmitted(stats.EdgesEmitted)
	return s.Report(os.Stdout)
}

func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	input := fs.String("input", "", "path to an edge-list TSV produced by parse (required)")
	output := fs.String("output", "", "path to write the analysis TSV (required)")
	useMostLinked := fs.Int("use-most-linked", 0, "step-groups: use the top N most-linked nodes as roots")
	useRandom := fs.Int("use-random", 0, "step-groups: sample N random nodes as roots")
	seed := fs.Uint64("seed", 1, "step-groups: PRNG seed for --use-random")
	rootsFile := fs.String("roots-file", "", "step-groups: one root title per line")
	topK := fs.Int("top", 0, "most-linked: truncate to the top K rows (0 = no truncation)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" || fs.NArg() != 1 {
		usage()
		return fmt.Errorf("analyze: --input, --output, and an analysis selector are all required")
	}
	selector := fs.Arg(0)

	g, err := graph.Load(*input)
	if err != nil {
		return fmt.Errorf("analyze: loading %s: %w", *input, err)
	}

	started := time.Now()
	s := summary.New(started)

	switch selector {
	case "link-histogram":
		rows := analyze.LinkHistogram(g)
		if err := analyze.WriteLinkHistogram(*output, rows); err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	case "most-linked":
		rows := analyze.MostLinked(g, *topK)
		if err := analyze.WriteMostLinked(*output, rows); err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	case "step-groups":
		roots, err := stepGroupsRoots(g, *useMostLinked, *useRandom, *seed, *rootsFile)
		if err != nil {
			return err
		}
		rows, err := analyze.StepGroups(context.Background(), g, roots)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		for _, r := range rows {
			if r.Steps == nil {
				s.Warn("unknown_root")
			}
		}
		if err := analyze.WriteStepGroups(*output, rows); err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		if *useRandom > 0 {
			fmt.Fprintf(os.Stdout, "seed: %d\n", *seed)
		}
	default:
		usage()
		return fmt.Errorf("analyze: unknown analysis %q", selector)
	}

	return s.Report(os.Stdout)
}

// stepGroupsRoots enforces §4.2's mutually-exclusive, exactly-one-required
// root-selection flags.
func stepGroupsRoots(g *graph.Graph, useMostLinked, useRandom int, seed uint64, rootsFile string) ([]analyze.RootSpec, error) {
	chosen := 0
	if useMostLinked > 0 {
		chosen++
	}
	if useRandom > 0 {
		chosen++
	}
	if rootsFile != "" {
		chosen++
	}
	if chosen != 1 {
		usage()
		return nil, fmt.Errorf("analyze: step-groups requires exactly one of --use-most-linked, --use-random, --roots-file")
	}

	switch {
	case useMostLinked > 0:
		return analyze.MostLinkedRoots(g, useMostLinked), nil
	case useRandom > 0:
		return analyze.RandomRoots(g, useRandom, seed), nil
	default:
		return analyze.LoadRootsFile(g, rootsFile)
	}
}
