// Package xmlpage streams a MediaWiki XML dump one <page> element at a
// time, per spec §4.1's "XML page splitter": emit a record, never build a
// DOM of the whole file.
package xmlpage

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Page is one <page> record, using the struct-tag shape from the
// reference pack's miku-wikikit (Title/Redir/Text via
// xml:"revision>text"), extended with the namespace ID §3 requires to
// decide whether a page is a mainspace article at all.
type Page struct {
	Title     string   `xml:"title"`
	Namespace int      `xml:"ns"`
	Redirect  Redirect `xml:"redirect"`
	Text      string   `xml:"revision>text"`
}

// Redirect mirrors MediaWiki's <redirect title="..."/> element, present
// only on the small fraction of pages the server itself marked as a
// redirect. internal/parse.BuildTables resolves redirects by parsing Text
// first, since some older dumps omit this attribute even on true
// redirects, and uses the attribute only when Text carries no directive.
type Redirect struct {
	Title string `xml:"title,attr"`
}

// IsRedirect reports whether the server-side <redirect> marker was present.
func (p Page) IsRedirect() bool {
	return p.Redirect.Title != ""
}

// NamespacePair is one (id, name) entry from a dump's
// <siteinfo><namespaces> block.
type NamespacePair struct {
	ID   int
	Name string
}

// siteInfo mirrors just enough of <mediawiki><siteinfo> to recover the
// namespace table; everything else in that block (sitename, generator,
// case) is not needed downstream.
type siteInfo struct {
	Namespaces struct {
		Namespace []struct {
			Key  int    `xml:"key,attr"`
			Name string `xml:",chardata"`
		} `xml:"namespace"`
	} `xml:"namespaces"`
}

// Reader streams <page> elements out of a dump, reading the <siteinfo>
// block (if present) once up front.
type Reader struct {
	dec        *xml.Decoder
	Namespaces []NamespacePair

	// pending holds a <page> start element consumed while scanning for
	// <siteinfo> in dumps that omit that block entirely; the next Next
	// call replays it instead of reading a new token.
	pending *xml.StartElement
}

// NewReader wraps r, immediately scanning forward to capture <siteinfo>
// (if the dump carries one) before the first Next call. r must already be
// positioned at the start of dump content (any compression has been
// stripped by the caller, e.g. internal/dumpio).
func NewReader(r io.Reader) (*Reader, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	rd := &Reader{dec: dec}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return rd, nil
		}
		if err != nil {
			return nil, fmt.Errorf("xmlpage: reading header: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "siteinfo":
			var si siteInfo
			if err := dec.DecodeElement(&si, &start); err != nil {
				return nil, fmt.Errorf("xmlpage: decoding siteinfo: %w", err)
			}
			for _, ns := range si.Namespaces.Namespace {
				rd.Namespaces = append(rd.Namespaces, NamespacePair{ID: ns.Key, Name: strings.TrimSpace(ns.Name)})
			}
			return rd, nil
		case "page":
			// No <siteinfo> in this dump: the first page arrived before we
			// found one. Stash it so Next replays it as the first record.
			s := start
			rd.pending = &s
			return rd, nil
		}
	}
}

// Next decodes the next <page> element and returns it. It returns io.EOF
// once the stream is exhausted. Malformed individual pages are not
// returned as a fatal error: per §4.1 "XML-level malformation on a single
// page: skip, continue", Next skips them internally and returns the next
// well-formed page, only propagating an error if the underlying reader
// itself fails (truncation, which §4.1 marks fatal).
func (rd *Reader) Next() (Page, error) {
	if rd.pending != nil {
		start := *rd.pending
		rd.pending = nil
		if page, err := rd.decodePage(start); err == nil {
			return page, nil
		}
		// A malformed stashed page is skipped like any other.
	}
	for {
		tok, err := rd.dec.Token()
		if err == io.EOF {
			return Page{}, io.EOF
		}
		if err != nil {
			return Page{}, fmt.Errorf("xmlpage: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}
		page, err := rd.decodePage(start)
		if err != nil {
			// A single malformed page is skipped, not fatal; keep scanning.
			continue
		}
		return page, nil
	}
}

func (rd *Reader) decodePage(start xml.StartElement) (Page, error) {
	var p Page
	if err := rd.dec.DecodeElement(&p, &start); err != nil {
		return Page{}, fmt.Errorf("xmlpage: decoding page: %w", err)
	}
	return p, nil
}
