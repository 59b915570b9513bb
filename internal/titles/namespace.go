package titles

import "strings"

// Namespace describes one MediaWiki namespace, as carried in a dump's
// <siteinfo><namespaces> block (mirroring the shape of
// cmd/qrank-builder/wikisites.go's Namespace, which is populated from the
// JSON siteinfo file qrank reads out-of-band; we read it from the XML dump
// itself since that is the only per-run source of truth this spec has).
type Namespace struct {
	ID   int
	Name string
}

// defaultNamespaces are used when a dump carries no <siteinfo> block, or
// the block lists no namespaces. A <siteinfo> block that fails to decode
// is not covered here: xmlpage.NewReader returns an error for it.
var defaultNamespaces = []Namespace{
	{-2, "Media"},
	{-1, "Special"},
	{1, "Talk"},
	{2, "User"},
	{3, "User talk"},
	{4, "Wikipedia"},
	{5, "Wikipedia talk"},
	{6, "File"},
	{7, "File talk"},
	{8, "MediaWiki"},
	{9, "MediaWiki talk"},
	{10, "Template"},
	{11, "Template talk"},
	{12, "Help"},
	{13, "Help talk"},
	{14, "Category"},
	{15, "Category talk"},
	{100, "Portal"},
	{101, "Portal talk"},
	{108, "Book"},
	{109, "Book talk"},
	{118, "Draft"},
	{119, "Draft talk"},
	{710, "TimedText"},
	{711, "TimedText talk"},
	{828, "Module"},
	{829, "Module talk"},
}

// commonInterwikiPrefixes is a static set of well-known Wikimedia interwiki
// prefixes. Real MediaWiki installs serve a live, much larger interwiki
// table; this spec processes a single dump with no network access (§6:
// "reads no environment variables; all configuration is explicit"), so we
// carry a fixed, representative set rather than fetch one, matching the
// teacher's fallback posture for missing metadata (warn and proceed) rather
// than failing a whole run over incomplete interwiki coverage.
var commonInterwikiPrefixes = map[string]bool{
	"commons": true, "wikt": true, "wiktionary": true, "wikisource": true,
	"wikiquote": true, "wikibooks": true, "wikinews": true,
	"wikiversity": true, "wikispecies": true, "wikidata": true,
	"meta": true, "metawiki": true, "mw": true, "phab": true, "m": true,
	"w": true, "s": true, "b": true, "n": true, "q": true, "v": true,
	"species": true, "d": true, "wmf": true,
	"en": true, "de": true, "fr": true, "es": true, "it": true, "ja": true,
	"zh": true, "ru": true, "pt": true, "nl": true, "pl": true, "ar": true,
	"sv": true, "fi": true, "no": true, "da": true, "ko": true, "tr": true,
}

// NamespaceTable maps namespace names (and their canonical-cased form) to
// Namespace records, built from a dump's <siteinfo> block, falling back to
// defaultNamespaces when the block is absent.
type NamespaceTable struct {
	byName map[string]Namespace
}

// NewNamespaceTable builds a table from (id, name) pairs parsed out of a
// dump's <siteinfo><namespaces> block. If pairs is empty, the table falls
// back to defaultNamespaces.
func NewNamespaceTable(pairs []Namespace) *NamespaceTable {
	if len(pairs) == 0 {
		pairs = defaultNamespaces
	}
	t := &NamespaceTable{byName: make(map[string]Namespace, len(pairs)*2)}
	for _, ns := range pairs {
		if ns.Name == "" {
			continue
		}
		t.byName[ns.Name] = ns
		t.byName[strings.ToLower(ns.Name)] = ns
	}
	return t
}

// Lookup reports whether prefix names a known namespace, case-insensitively.
func (t *NamespaceTable) Lookup(prefix string) (Namespace, bool) {
	if ns, ok := t.byName[prefix]; ok {
		return ns, true
	}
	ns, ok := t.byName[strings.ToLower(prefix)]
	return ns, ok
}

// IsInterwikiPrefix reports whether prefix (already lower-cased by the
// caller is not required; this does it) names a known interwiki target.
func IsInterwikiPrefix(prefix string) bool {
	return commonInterwikiPrefixes[strings.ToLower(prefix)]
}

// SplitPrefix splits a raw wikilink target into a leading "prefix:" (if
// any appears before the first '|' or '#', which the caller has already
// ensured) and the remainder. ok is false if there is no colon, or the
// colon is the very first character (a leading-colon escape, handled
// separately by the scanner).
func SplitPrefix(target string) (prefix, rest string, ok bool) {
	i := strings.IndexByte(target, ':')
	if i <= 0 {
		return "", target, false
	}
	return target[:i], target[i+1:], true
}
