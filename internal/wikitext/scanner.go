// Package wikitext extracts outbound wikilink targets from MediaWiki
// article bodies, per spec §4.1 "Wikitext link scanner".
//
// No example repo in the reference pack scans raw wikitext for `[[...]]`
// syntax against a live suppression state machine (the teacher and
// ldobbelsteen-wikipath both consume pre-extracted SQL link tables, not
// article text). This scanner is styled after
// cmd/qrank-builder/sqlreader.go's hand-rolled sqlLexer: a single
// left-to-right byte scan over the body, tracking a small amount of state,
// rather than a regexp — a regex cannot track nested suppression spans
// while also handling the link-internal "|"/"#" truncation rules.
package wikitext

import "strings"

// suppressSpan names one of the four mandatory suppression regions from
// §4.1: "Skip links embedded inside <nowiki>…</nowiki>, <!-- … -->,
// <pre>…</pre>, <code>…</code>, and math/ref blocks."
type suppressSpan struct {
	open, close string
}

var suppressSpans = []suppressSpan{
	{"<!--", "-->"},
	{"<nowiki>", "</nowiki>"},
	{"<nowiki/>", ""}, // self-closing; handled specially below
	{"<pre>", "</pre>"},
	{"<code>", "</code>"},
	{"<math>", "</math>"},
	{"<ref>", "</ref>"},
}

// ScanLinks returns the raw (not yet canonicalized or namespace-filtered)
// link targets found in body, in order of appearance, applying the §4.1
// suppression and truncation rules:
//
//   - the target is the substring up to the first '|', '#', or ']]'
//   - an empty target is dropped
//   - content inside <nowiki>, <!-- -->, <pre>, <code>, <math>, <ref> is
//     never scanned for links
//
// Leading-colon and namespace/interwiki-prefix rejection are the caller's
// responsibility (internal/titles.SplitPrefix + IsInterwikiPrefix), since
// those decisions need the namespace table ScanLinks does not have.
func ScanLinks(body string) []string {
	var links []string
	i := 0
	n := len(body)
	for i < n {
		if skip := suppressedLen(body[i:]); skip > 0 {
			i += skip
			continue
		}
		if body[i] == '[' && i+1 < n && body[i+1] == '[' {
			target, consumed := scanLink(body[i+2:])
			i += 2 + consumed
			if target != "" {
				links = append(links, target)
			}
			continue
		}
		i++
	}
	return links
}

// suppressedLen returns the number of bytes at the start of s that belong
// to a suppressed span (including its closing delimiter), or 0 if s does
// not start with any recognized opening delimiter. Unterminated spans
// (missing a closing delimiter, e.g. a truncated dump) consume the rest of
// the string: nothing after an unterminated suppression tag can be a safe
// link, so dropping it is the conservative choice.
func suppressedLen(s string) int {
	for _, span := range suppressSpans {
		if span.close == "" {
			continue
		}
		if strings.HasPrefix(s, span.open) {
			rest := s[len(span.open):]
			if end := strings.Index(rest, span.close); end >= 0 {
				return len(span.open) + end + len(span.close)
			}
			return len(s)
		}
	}
	if strings.HasPrefix(s, "<nowiki/>") {
		return len("<nowiki/>")
	}
	return 0
}

// scanLink consumes the interior of a "[[" that has already been matched,
// returning the link target (the substring up to the first '|', '#', or
// "]]") and the number of bytes consumed from s, including the terminating
// "]]" if one is found. If "]]" is never found, the whole remainder of the
// string is consumed and treated as containing no usable link (an
// unterminated link cannot be safely resolved).
func scanLink(s string) (target string, consumed int) {
	end := strings.Index(s, "]]")
	if end < 0 {
		return "", len(s)
	}
	inner := s[:end]
	consumed = end + len("]]")

	target = inner
	if p := strings.IndexAny(inner, "|#"); p >= 0 {
		target = inner[:p]
	}
	return strings.TrimSpace(target), consumed
}
