// Package ignore implements the §4.1 "Ignore-set filter": titles matching
// any line in any file under a directory are excluded as both sources and
// targets.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wikigraph/internal/titles"
)

// Set is a membership test over canonical titles, loaded from every file
// directly under a directory.
type Set struct {
	titles map[string]bool
}

// Empty returns a Set that excludes nothing, for callers that did not
// configure an ignore directory.
func Empty() *Set {
	return &Set{}
}

// Load reads every regular file directly under dir, one title per line.
// Blank lines and lines starting with '#' are comments and skipped.
// Matching is on canonical form (internal/titles.Canonical).
func Load(dir string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ignore: reading %s: %w", dir, err)
	}
	s := &Set{titles: make(map[string]bool)}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := s.loadFile(path); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ignore: opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	const maxLine = 1 * 1024 * 1024
	scanner.Buffer(make([]byte, maxLine), maxLine)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.titles[titles.Canonical(line)] = true
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ignore: reading %s: %w", path, err)
	}
	return nil
}

// Contains reports whether a canonical title is in the ignore set.
func (s *Set) Contains(canonicalTitle string) bool {
	if s == nil || len(s.titles) == 0 {
		return false
	}
	return s.titles[canonicalTitle]
}

// Len returns the number of distinct titles loaded.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.titles)
}

// AllowsEdge reports whether an edge between two canonical titles survives
// the filter: "An edge is emitted only if both endpoints pass the filter."
func (s *Set) AllowsEdge(source, target string) bool {
	return !s.Contains(source) && !s.Contains(target)
}
