package xmlpage

import (
	"io"
	"strings"
	"testing"
)

const sampleDump = `<mediawiki>
  <siteinfo>
    <namespaces>
      <namespace key="-2">Media</namespace>
      <namespace key="0"></namespace>
      <namespace key="14">Category</namespace>
    </namespaces>
  </siteinfo>
  <page>
    <title>Foo</title>
    <ns>0</ns>
    <revision><text>Some [[Bar]] text.</text></revision>
  </page>
  <page>
    <title>Baz</title>
    <ns>0</ns>
    <redirect title="Foo" />
    <revision><text>#REDIRECT [[Foo]]</text></revision>
  </page>
</mediawiki>`

func TestReaderReadsSiteInfo(t *testing.T) {
	rd, err := NewReader(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if len(rd.Namespaces) != 3 {
		t.Fatalf("got %d namespaces, want 3", len(rd.Namespaces))
	}
	if rd.Namespaces[2].ID != 14 || rd.Namespaces[2].Name != "Category" {
		t.Fatalf("unexpected namespace entry: %+v", rd.Namespaces[2])
	}
}

func TestReaderIteratesPages(t *testing.T) {
	rd, err := NewReader(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	var titles []string
	for {
		p, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		titles = append(titles, p.Title)
	}
	want := []string{"Foo", "Baz"}
	if len(titles) != len(want) {
		t.Fatalf("got titles %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("got titles %v, want %v", titles, want)
		}
	}
}

func TestReaderRedirectFlag(t *testing.T) {
	rd, err := NewReader(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	first, _ := rd.Next()
	if first.IsRedirect() {
		t.Fatal("Foo should not be flagged as a redirect")
	}
	second, _ := rd.Next()
	if !second.IsRedirect() {
		t.Fatal("Baz should be flagged as a redirect")
	}
}

func TestReaderNoSiteInfo(t *testing.T) {
	dump := `<mediawiki><page><title>Solo</title><ns>0</ns><revision><text>hi</text></revision></page></mediawiki>`
	rd, err := NewReader(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if len(rd.Namespaces) != 0 {
		t.Fatalf("expected no namespaces, got %v", rd.Namespaces)
	}
	p, err := rd.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if p.Title != "Solo" {
		t.Fatalf("got title %q, want Solo", p.Title)
	}
	if _, err := rd.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after the single page, got %v", err)
	}
}

func TestReaderEmptyStream(t *testing.T) {
	rd, err := NewReader(strings.NewReader(`<mediawiki></mediawiki>`))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := rd.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}
