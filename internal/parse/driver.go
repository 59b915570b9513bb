// Package parse implements spec §4.1's Stage P: stream a MediaWiki XML
// dump, extract outbound wikilinks, canonicalize and resolve them against
// the dump's own title/redirect/namespace tables, and emit a canonical
// TSV edge list.
package parse

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lanrat/extsort"

	"wikigraph/internal/dumpio"
	"wikigraph/internal/ignore"
	"wikigraph/internal/interner"
	"wikigraph/internal/titles"
	"wikigraph/internal/wikitext"
	"wikigraph/internal/xmlpage"
)

// Options configures one parse run.
type Options struct {
	DumpPath   string
	OutputPath string
	IgnoreDir  string // empty disables the ignore filter
	Reverse    bool   // transpose: emit target<TAB>source instead
	NumWorkers int    // 0 selects runtime.NumCPU()
}

// Stats summarizes a completed parse run, surfaced through
// internal/summary. PagesScanned is incremented concurrently by every
// shard worker (via atomic.AddInt64), so it is the one field that needs
// atomic access; the rest are only ever touched single-threaded (before
// or after the parallel scan).
type Stats struct {
	PagesScanned   int64
	ArticlesFound  int64
	RedirectsFound int64
	EdgesEmitted   int64
	Shards         int
}

// Run executes the full parse stage described in §4.1: build the title
// tables, shard the dump, scan links in parallel, sort and dedup the
// resulting edges, and write the canonical TSV atomically.
func Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	tables, err := BuildTables(opts.DumpPath)
	if err != nil {
		return stats, err
	}
	stats.ArticlesFound = int64(len(tables.articles))
	stats.RedirectsFound = int64(tables.Redirects.Len())

	var ignoreSet *ignore.Set
	if opts.IgnoreDir != "" {
		ignoreSet, err = ignore.Load(opts.IgnoreDir)
		if err != nil {
			return stats, err
		}
	} else {
		ignoreSet = ignore.Empty()
	}

	in := interner.New(len(tables.articles))

	shards, codec, file, size, err := openShards(opts.DumpPath, opts.NumWorkers)
	if err != nil {
		return stats, err
	}
	defer file.Close()
	stats.Shards = len(shards)

	edgeCh := make(chan extsort.SortType, 1<<16)
	config := extsort.DefaultConfig()
	config.ChunkSize = 8 * 1024 * 1024 / 8 // 8 MiB, ~8 bytes/edge average
	config.NumWorkers = runtime.NumCPU()
	sorter, sortedCh, errCh := extsort.New(edgeCh, EdgeFromBytes, EdgeLess, config)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(edgeCh)
		return scanShards(groupCtx, opts.DumpPath, file, size, codec, shards, tables, ignoreSet, in, edgeCh, &stats)
	})

	tmpPath := opts.OutputPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return stats, fmt.Errorf("parse: creating %s: %w", tmpPath, err)
	}
	defer os.Remove(tmpPath)

	writer, err := NewWriter(tmpFile, in, opts.Reverse)
	if err != nil {
		tmpFile.Close()
		return stats, err
	}

	group.Go(func() error {
		sorter.Sort(groupCtx)
		for {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case item, more := <-sortedCh:
				if !more {
					return writer.Flush()
				}
				if err := writer.Write(item.(Edge)); err != nil {
					return err
				}
			}
		}
	})

	if err := group.Wait(); err != nil {
		tmpFile.Close()
		return stats, err
	}
	if err := <-errCh; err != nil {
		tmpFile.Close()
		return stats, err
	}
	stats.EdgesEmitted = writer.Written()

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return stats, err
	}
	if err := tmpFile.Close(); err != nil {
		return stats, err
	}
	if err := os.Rename(tmpPath, opts.OutputPath); err != nil {
		return stats, fmt.Errorf("parse: renaming output into place: %w", err)
	}
	return stats, nil
}

// openShards prepares the work units for the link-scanning pass. Seekable
// codecs get true random-access shards; everything else is a single
// sequential shard (§4.1: "or logically, by page, when the format does
// not permit seeking").
func openShards(path string, numWorkers int) ([]dumpio.Shard, dumpio.Codec, *os.File, int64, error) {
	codec := dumpio.DetectCodec(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, codec, nil, 0, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, codec, nil, 0, err
	}
	size := stat.Size()

	if !codec.Seekable() {
		return []dumpio.Shard{{Start: 0}}, codec, f, size, nil
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	shards, err := dumpio.Split(f, size, codec, numWorkers)
	if err != nil {
		f.Close()
		return nil, codec, nil, 0, err
	}
	return shards, codec, f, size, nil
}

// scanShards runs one worker per shard, each decoding pages from its own
// reader and stopping at its shard's LimitTitle (the teacher's
// limitReached pattern from entities.go, retargeted to page titles).
func scanShards(
	ctx context.Context,
	dumpPath string,
	file *os.File,
	size int64,
	codec dumpio.Codec,
	shards []dumpio.Shard,
	tables *Tables,
	ignoreSet *ignore.Set,
	in *interner.Interner,
	out chan<- extsort.SortType,
	stats *Stats,
) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, shard := range shards {
		shard := shard
		group.Go(func() error {
			var reader io.Reader
			var err error
			if codec.Seekable() {
				reader, err = dumpio.OpenShard(file, size, codec, shard)
			} else {
				var rc io.ReadCloser
				rc, err = dumpio.Open(dumpPath)
				if err == nil {
					defer rc.Close()
					reader = rc
				}
			}
			if err != nil {
				return err
			}
			xr, err := xmlpage.NewReader(reader)
			if err != nil {
				return err
			}
			return scanPages(ctx, xr, shard.LimitTitle, tables, ignoreSet, in, out, stats)
		})
	}
	return group.Wait()
}

// scanPages decodes pages from xr until it reaches one titled limitTitle
// (exclusive) or runs out of input, extracting and resolving links from
// each mainspace article along the way.
func scanPages(
	ctx context.Context,
	xr *xmlpage.Reader,
	limitTitle string,
	tables *Tables,
	ignoreSet *ignore.Set,
	in *interner.Interner,
	out chan<- extsort.SortType,
	stats *Stats,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		page, err := xr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if limitTitle != "" && page.Title == limitTitle {
			return nil
		}

		atomic.AddInt64(&stats.PagesScanned, 1)
		if page.Namespace != 0 || page.IsRedirect() {
			continue
		}
		sourceCanonical := titles.Canonical(page.Title)
		if sourceCanonical == "" || !tables.IsArticle(sourceCanonical) {
			continue
		}
		if _, ok := titles.ParseRedirectTarget(page.Text); ok {
			continue
		}

		for _, raw := range wikitext.ScanLinks(page.Text) {
			target, ok := wikitext.AcceptTarget(tables.Namespaces, raw)
			if !ok {
				continue
			}
			targetCanonical := titles.Canonical(target)
			if targetCanonical == "" {
				continue
			}
			resolved, ok := tables.Redirects.Resolve(targetCanonical)
			if !ok || !tables.IsArticle(resolved) {
				continue
			}
			if !ignoreSet.AllowsEdge(sourceCanonical, resolved) {
				continue
			}

			sourceID := in.Intern(sourceCanonical)
			targetID := in.Intern(resolved)
			select {
			case out <- Edge{Source: sourceID, Target: targetID}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
