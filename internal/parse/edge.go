package parse

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/lanrat/extsort"

	"wikigraph/internal/interner"
)

// Edge is one (source, target) pair of interned title IDs, encoded for
// extsort the same way cmd/qrank-builder/links.go encodes its Link type:
// two varints, smallest-first. IDs are dense int32s assigned by
// internal/interner, so a pair of varints is far more compact than the
// "source\ttarget" string lines the teacher uses elsewhere for SQL rows
// that are already strings.
type Edge struct {
	Source interner.ID
	Target interner.ID
}

func (e Edge) ToBytes() []byte {
	buf := make([]byte, binary.MaxVarintLen32*2)
	n := binary.PutVarint(buf, int64(e.Source))
	n += binary.PutVarint(buf[n:], int64(e.Target))
	return buf[:n]
}

func EdgeFromBytes(b []byte) extsort.SortType {
	source, n := binary.Varint(b)
	target, _ := binary.Varint(b[n:])
	return Edge{Source: interner.ID(source), Target: interner.ID(target)}
}

func EdgeLess(a, b extsort.SortType) bool {
	aa, bb := a.(Edge), b.(Edge)
	if aa.Source != bb.Source {
		return aa.Source < bb.Source
	}
	return aa.Target < bb.Target
}

// Writer serializes sorted edges to a canonical TSV edge list, dropping
// self-edges and adjacent duplicates exactly the way
// cmd/qrank-builder/links.go's LinkWriter does, then translating IDs back
// to their titles via in. If reverse is set, source and target are
// swapped on write, implementing §4.1's optional transpose mode.
type Writer struct {
	out        *bufio.Writer
	in         *interner.Interner
	reverse    bool
	lastSource interner.ID
	lastTarget interner.ID
	hasLast    bool
	wrote      int64
}

// NewWriter wraps w, writing the required header line immediately.
func NewWriter(w io.Writer, in *interner.Interner, reverse bool) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("source_title\ttarget_title\n"); err != nil {
		return nil, err
	}
	return &Writer{out: bw, in: in, reverse: reverse}, nil
}

// Write appends one edge, applying dedup and self-edge suppression.
func (w *Writer) Write(e Edge) error {
	if w.hasLast && e.Source == w.lastSource && e.Target == w.lastTarget {
		return nil
	}
	w.lastSource, w.lastTarget, w.hasLast = e.Source, e.Target, true

	if e.Source == e.Target {
		return nil
	}

	source, target := e.Source, e.Target
	if w.reverse {
		source, target = target, source
	}
	if _, err := w.out.WriteString(w.in.Title(source)); err != nil {
		return err
	}
	if err := w.out.WriteByte('\t'); err != nil {
		return err
	}
	if _, err := w.out.WriteString(w.in.Title(target)); err != nil {
		return err
	}
	if err := w.out.WriteByte('\n'); err != nil {
		return err
	}
	w.wrote++
	return nil
}

// Flush flushes buffered output.
func (w *Writer) Flush() error {
	return w.out.Flush()
}

// Written returns the number of edges actually written, after dedup and
// self-edge suppression.
func (w *Writer) Written() int64 {
	return w.wrote
}
