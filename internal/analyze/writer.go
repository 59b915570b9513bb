package analyze

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// writeAtomic writes a TSV file (header, then one row per call to
// writeRows) to a temp file in path's directory and renames it into
// place, matching internal/parse's atomic-output convention (itself
// grounded on the teacher's processEntities/buildLinks pattern). No
// partially-written file is ever visible at path.
func writeAtomic(path, header string, writeRows func(w *bufio.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("analyze: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := bufio.NewWriter(tmp)
	if _, err := fmt.Fprintln(w, header); err != nil {
		tmp.Close()
		return err
	}
	if err := writeRows(w); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// WriteLinkHistogram writes a link-histogram TSV to path.
func WriteLinkHistogram(path string, rows []HistogramRow) error {
	return writeAtomic(path, "degree\tcount", func(w *bufio.Writer) error {
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "%d\t%d\n", r.Degree, r.Count); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMostLinked writes a most-linked TSV to path.
func WriteMostLinked(path string, rows []MostLinkedRow) error {
	return writeAtomic(path, "title\tdegree", func(w *bufio.Writer) error {
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "%s\t%d\n", r.Title, r.Degree); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteStepGroups writes a step-groups TSV to path: one row per root,
// "title\tstep0_size\tstep1_size\t...", or just "title" for an unknown
// root.
func WriteStepGroups(path string, rows []StepGroupsRow) error {
	return writeAtomic(path, "title\tsteps", func(w *bufio.Writer) error {
		var b strings.Builder
		for _, r := range rows {
			b.Reset()
			b.WriteString(r.Title)
			for _, s := range r.Steps {
				b.WriteByte('\t')
				b.WriteString(strconv.FormatInt(s, 10))
			}
			b.WriteByte('\n')
			if _, err := w.WriteString(b.String()); err != nil {
				return err
			}
		}
		return nil
	})
}
