// Package interner maps article titles to dense integer IDs and back.
//
// An Interner is filled monotonically while the owning stage (parse or
// analyze) is running single-threaded or under its own mutex-guarded
// growth phase. Once Freeze is called the title table, like the teacher's
// WikiSite.Namespaces table, no longer grows and is treated as read-only
// for the rest of the process. Lookups still take the read lock after
// Freeze; they are not lock-free.
package interner

import (
	"sync"
	"sync/atomic"
)

// ID is a dense, nonnegative article identifier. IDs are stable within a
// single process run but carry no meaning across runs.
type ID int32

// Interner maps canonical titles to IDs and IDs back to titles.
type Interner struct {
	mu     sync.RWMutex
	byID   []string
	byName map[string]ID
	frozen atomic.Bool
}

// New creates an empty Interner with room for approximately n titles.
func New(n int) *Interner {
	return &Interner{
		byID:   make([]string, 0, n),
		byName: make(map[string]ID, n),
	}
}

// Intern returns the ID for title, assigning a new one if title has not
// been seen before. Panics if called after Freeze: growth after freezing
// indicates a programming error, not a runtime condition worth an error
// return.
func (in *Interner) Intern(title string) ID {
	in.mu.RLock()
	if id, ok := in.byName[title]; ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	if in.frozen.Load() {
		panic("interner: Intern called after Freeze")
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.byName[title]; ok {
		return id
	}
	id := ID(len(in.byID))
	in.byID = append(in.byID, title)
	in.byName[title] = id
	return id
}

// Lookup returns the ID for title without interning it, and whether it was
// found.
func (in *Interner) Lookup(title string) (ID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	id, ok := in.byName[title]
	return id, ok
}

// Title returns the canonical title for id. Panics if id is out of range.
func (in *Interner) Title(id ID) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.byID[id]
}

// Len returns the number of distinct titles interned so far.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byID)
}

// Freeze marks the interner read-only. After Freeze, Intern may still be
// called for titles already present (a cache hit), but interning a new
// title panics. Lookup, Title, and Len remain safe to call concurrently;
// each takes the read lock, so readers never wait on a writer.
func (in *Interner) Freeze() {
	in.frozen.Store(true)
}

// Titles returns the dense title table, indexed by ID. The caller must not
// mutate the returned slice; it is only valid after Freeze.
func (in *Interner) Titles() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.byID
}
