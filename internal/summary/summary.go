// Package summary collects run-level counters and renders them as a
// human-readable end-of-run report, per §7's "warnings ... counted in a
// summary printed at the end of the run".
//
// The counters themselves are ordinary prometheus collectors, the same
// kind the teacher registers and exposes over /metrics in cmd/webserver
// and cmd/qrank-webserver. This package never starts an HTTP server —
// §1 treats the CLI/server surface as an external collaborator — so the
// registry is gathered in-process and rendered straight to text instead
// of being scraped.
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
)

// Summary accumulates counts for one parse or analyze run.
type Summary struct {
	registry *prometheus.Registry
	started  time.Time

	pagesScanned   prometheus.Counter
	articlesFound  prometheus.Counter
	redirectsFound prometheus.Counter
	edgesEmitted   prometheus.Counter
	warnings       *prometheus.CounterVec
}

// New creates an empty Summary. started is the run's start time, passed
// in rather than read from the clock so callers stamp it once up front.
func New(started time.Time) *Summary {
	s := &Summary{
		registry: prometheus.NewRegistry(),
		started:  started,
		pagesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikigraph",
			Name:      "pages_scanned_total",
			Help:      "Number of <page> elements read from the dump.",
		}),
		articlesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikigraph",
			Name:      "articles_found_total",
			Help:      "Number of namespace-0, non-redirect pages seen.",
		}),
		redirectsFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikigraph",
			Name:      "redirects_found_total",
			Help:      "Number of redirect pages seen.",
		}),
		edgesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wikigraph",
			Name:      "edges_emitted_total",
			Help:      "Number of edges written to the output edge list.",
		}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wikigraph",
			Name:      "warnings_total",
			Help:      "Number of warnings, by kind.",
		}, []string{"kind"}),
	}
	s.registry.MustRegister(s.pagesScanned, s.articlesFound, s.redirectsFound, s.edgesEmitted, s.warnings)
	return s
}

func (s *Summary) AddPagesScanned(n int64)   { s.pagesScanned.Add(float64(n)) }
func (s *Summary) AddArticlesFound(n int64)  { s.articlesFound.Add(float64(n)) }
func (s *Summary) AddRedirectsFound(n int64) { s.redirectsFound.Add(float64(n)) }
func (s *Summary) AddEdgesEmitted(n int64)   { s.edgesEmitted.Add(float64(n)) }

// Warn records one occurrence of a warning of the given kind, e.g.
// "unknown_root" for a step-groups root title absent from the graph.
func (s *Summary) Warn(kind string) {
	s.warnings.WithLabelValues(kind).Inc()
}

// Report renders the accumulated counters as plain text.
func (s *Summary) Report(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("summary: gathering metrics: %w", err)
	}

	values := map[string]float64{}
	warningsByKind := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetCounter().GetValue()
			if mf.GetName() == "wikigraph_warnings_total" {
				kind := "unknown"
				for _, lp := range m.GetLabel() {
					if lp.GetName() == "kind" {
						kind = lp.GetValue()
					}
				}
				warningsByKind[kind] += v
				continue
			}
			values[mf.GetName()] += v
		}
	}

	fmt.Fprintf(w, "elapsed: %s\n", time.Since(s.started).Round(time.Millisecond))
	fmt.Fprintf(w, "pages scanned: %s\n", humanize.Comma(int64(values["wikigraph_pages_scanned_total"])))
	fmt.Fprintf(w, "articles found: %s\n", humanize.Comma(int64(values["wikigraph_articles_found_total"])))
	fmt.Fprintf(w, "redirects found: %s\n", humanize.Comma(int64(values["wikigraph_redirects_found_total"])))
	fmt.Fprintf(w, "edges emitted: %s\n", humanize.Comma(int64(values["wikigraph_edges_emitted_total"])))

	if len(warningsByKind) == 0 {
		fmt.Fprintln(w, "warnings: none")
		return nil
	}
	kinds := make([]string, 0, len(warningsByKind))
	for kind := range warningsByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	fmt.Fprintln(w, "warnings:")
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %s: %s\n", kind, humanize.Comma(int64(warningsByKind[kind])))
	}
	return nil
}
