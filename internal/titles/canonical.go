// Package titles canonicalizes MediaWiki article titles, tracks namespaces,
// and resolves redirect chains, per spec §3 and §4.1.
package titles

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// caser performs Unicode-correct case folding, the same way
// cmd/qrank-builder/util.go's package-level caser does for qrank's
// site/title lines. It is stateless and safe for concurrent use.
var caser = cases.Fold()

// Canonical reduces a raw title (as it appears in a <title> element or a
// wikitext link target, possibly decoded from XML entities already) to its
// canonical storage form: internal whitespace runs collapse to a single
// ASCII space, leading/trailing whitespace is stripped, any trailing
// section anchor ("#...") is removed, and the first Unicode code point is
// uppercased. The remainder of the string keeps its original case.
//
// Applying Canonical uniformly at both intern-time and lookup-time is what
// gives the "first character case is preserved for storage but compared
// case-insensitively on lookup" behavior required by §3: two spellings that
// differ only in the case of their first letter canonicalize to the same
// string.
func Canonical(raw string) string {
	s := decodeEntities(raw)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	s = collapseWhitespace(s)
	s = norm.NFC.String(s)
	return uppercaseFirst(s)
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := true // drop leading whitespace
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

func uppercaseFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteRune(upper)
	b.WriteString(s[size:])
	return b.String()
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

// decodeEntities decodes the handful of XML entities MediaWiki titles can
// contain, plus numeric character references. Most titles arrive already
// entity-decoded by encoding/xml's CharData handling; this is a defensive
// second pass for titles assembled from wikitext link targets, which are
// substrings of already-decoded body text but can still carry
// double-escaped entities from template substitution.
func decodeEntities(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	s = entityReplacer.Replace(s)
	var b strings.Builder
	for {
		i := strings.Index(s, "&#")
		if i < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		rest := s[i+2:]
		hex := false
		if strings.HasPrefix(rest, "x") || strings.HasPrefix(rest, "X") {
			hex = true
			rest = rest[1:]
		}
		end := strings.IndexByte(rest, ';')
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		base := 10
		if hex {
			base = 16
		}
		code, err := strconv.ParseInt(rest[:end], base, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			b.WriteString(s[i : i+2+len(rest[:end])+1+boolToInt(hex)])
		} else {
			b.WriteRune(rune(code))
		}
		s = rest[end+1:]
	}
	return b.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Fold returns a Unicode case-folded key for title. None of the lookup
// paths in this repository (ignore sets, roots files, the graph loader)
// call it: they match titles exactly.
func Fold(title string) string {
	return caser.String(title)
}
