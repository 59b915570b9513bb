package parse

import (
	"fmt"
	"io"

	"wikigraph/internal/dumpio"
	"wikigraph/internal/titles"
	"wikigraph/internal/xmlpage"
)

// Tables holds everything the link-scanning pass needs to know about
// titles before it can resolve a single link: the namespace table, the
// redirect graph, and the set of canonical mainspace article titles. §2
// describes building these as happening "during the same pass" as link
// extraction, in the sense that both live inside a single invocation of
// the parse stage with no external index; in this implementation they are
// gathered in a first streaming pass over the dump (cheap: titles only,
// never page bodies beyond redirect directives) so the second, much more
// expensive wikitext-scanning pass can run fully in parallel without
// waiting on forward references to titles it hasn't seen yet.
type Tables struct {
	Namespaces *titles.NamespaceTable
	Redirects  *titles.Table
	articles   map[string]bool
}

// IsArticle reports whether a canonical title names a known mainspace,
// non-redirect article.
func (t *Tables) IsArticle(canonical string) bool {
	return t.articles[canonical]
}

// BuildTables performs the first pass: stream every page once, recording
// its title, namespace, and (if present) redirect target. Page bodies are
// otherwise discarded; wikitext link scanning happens only in the second
// pass, once this pass has a complete title universe to resolve against.
func BuildTables(path string) (*Tables, error) {
	r, err := dumpio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse: opening %s: %w", path, err)
	}
	defer r.Close()

	xr, err := xmlpage.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse: reading header of %s: %w", path, err)
	}

	var nsPairs []titles.Namespace
	for _, p := range xr.Namespaces {
		nsPairs = append(nsPairs, titles.Namespace{ID: p.ID, Name: p.Name})
	}
	nsTable := titles.NewNamespaceTable(nsPairs)

	tab := &Tables{
		Namespaces: nsTable,
		Redirects:  titles.NewTable(1 << 16),
		articles:   make(map[string]bool, 1<<16),
	}

	for {
		page, err := xr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		if page.Namespace != 0 {
			continue
		}
		canonical := titles.Canonical(page.Title)
		if canonical == "" {
			continue
		}
		if target, ok := titles.ParseRedirectTarget(page.Text); ok {
			canonicalTarget := titles.Canonical(target)
			if canonicalTarget != "" {
				tab.Redirects.Add(canonical, canonicalTarget)
			}
			continue
		}
		if page.IsRedirect() && page.Redirect.Title != "" {
			canonicalTarget := titles.Canonical(page.Redirect.Title)
			if canonicalTarget != "" {
				tab.Redirects.Add(canonical, canonicalTarget)
				continue
			}
		}
		tab.articles[canonical] = true
	}
	return tab, nil
}
