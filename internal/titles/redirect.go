package titles

import "strings"

// maxRedirectHops bounds redirect-chain resolution per §4.1: "follow the
// redirect table up to 8 hops; if unresolved, discard edges pointing to
// the chain's head." Cross-checked against ldobbelsteen-wikipath/build.go,
// which instead walks every redirect to a fixed point up front and breaks
// cycles by deleting the offending entry; we use a bounded per-lookup walk
// instead, which is cheaper when most redirects are not chained and lets
// us treat overflow/cycles uniformly as "unresolved" at resolve time
// rather than as a pre-processing pass over the whole redirect table.
const maxRedirectHops = 8

// redirectMagicWords lists the leading tokens MediaWiki recognizes as a
// redirect directive, across the languages most likely to appear in a
// single-dump run. MediaWiki's real magic-word table is locale-specific
// and fetched from site configuration; since this spec processes one dump
// with no network access (§6), we carry a fixed, representative list
// rather than the live per-wiki table.
var redirectMagicWords = []string{
	"REDIRECT", "WEITERLEITUNG", "REDIRECCIÓN", "REDIRECTION", "RINVIA",
	"DOORVERWIJZING", "REDIRECIONAMENTO", "PRZEKIERUJ", "YÖNLENDİRME",
}

// ParseRedirectTarget reports whether body is a redirect directive and, if
// so, the raw (not yet canonicalized) link target it points to. Per §3, a
// redirect page "is not a node; it is an alias from its own title to
// target."
func ParseRedirectTarget(body string) (target string, ok bool) {
	s := strings.TrimLeft(body, " \t\r\n")
	if !strings.HasPrefix(s, "#") {
		return "", false
	}
	s = s[1:]

	matched := false
	for _, word := range redirectMagicWords {
		if len(s) >= len(word) && strings.EqualFold(s[:len(word)], word) {
			s = s[len(word):]
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}
	s = strings.TrimLeft(s, " \t:")

	if !strings.HasPrefix(s, "[[") {
		return "", false
	}
	s = s[2:]

	end := len(s)
	for i, delim := range []string{"|", "#", "]]"} {
		_ = i
		if p := strings.Index(s, delim); p >= 0 && p < end {
			end = p
		}
	}
	target = strings.TrimSpace(s[:end])
	if target == "" {
		return "", false
	}
	return target, true
}

// Table resolves redirect chains. Keys and values are canonical titles.
type Table struct {
	targets map[string]string
}

// NewTable builds a redirect table from canonical (source, target) pairs.
func NewTable(n int) *Table {
	return &Table{targets: make(map[string]string, n)}
}

// Add records that source redirects to target (both canonical titles).
func (t *Table) Add(source, target string) {
	t.targets[source] = target
}

// Len returns the number of redirect entries.
func (t *Table) Len() int {
	return len(t.targets)
}

// Resolve follows the redirect chain starting at title up to
// maxRedirectHops steps. If title is not itself a redirect source, it is
// returned unchanged with ok=true (it may or may not be an article; the
// caller checks that separately). If the chain exceeds maxRedirectHops or
// cycles back on itself, ok is false: the caller must treat the edge as
// unresolved and drop it, per §4.1.
func (t *Table) Resolve(title string) (resolved string, ok bool) {
	seen := make(map[string]bool, maxRedirectHops)
	cur := title
	for hops := 0; hops < maxRedirectHops; hops++ {
		next, isRedirect := t.targets[cur]
		if !isRedirect {
			return cur, true
		}
		if seen[next] {
			return "", false
		}
		seen[cur] = true
		cur = next
	}
	// Exceeded the hop bound while still pointing at another redirect.
	if _, stillRedirect := t.targets[cur]; stillRedirect {
		return "", false
	}
	return cur, true
}
