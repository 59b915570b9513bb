package wikitext

import (
	"reflect"
	"testing"

	"wikigraph/internal/titles"
)

func TestScanLinksBasic(t *testing.T) {
	body := "See [[Foo|display]] and [[Foo#section]] and [[Foo]]."
	got := ScanLinks(body)
	want := []string{"Foo", "Foo", "Foo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ScanLinks = %v, want %v", got, want)
	}
}

func TestScanLinksEmptyTargetDropped(t *testing.T) {
	got := ScanLinks("a [[|display]] b [[#section]] c")
	if len(got) != 0 {
		t.Fatalf("expected no links, got %v", got)
	}
}

func TestScanLinksUnterminatedIgnored(t *testing.T) {
	got := ScanLinks("text [[Unterminated")
	if len(got) != 0 {
		t.Fatalf("expected no links from an unterminated [[, got %v", got)
	}
}

func TestScanLinksSuppressedInComment(t *testing.T) {
	got := ScanLinks("before <!-- [[Hidden]] --> [[Visible]]")
	want := []string{"Visible"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ScanLinks = %v, want %v", got, want)
	}
}

func TestScanLinksSuppressedInNowiki(t *testing.T) {
	got := ScanLinks("<nowiki>[[Hidden]]</nowiki> [[Visible]]")
	want := []string{"Visible"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ScanLinks = %v, want %v", got, want)
	}
}

func TestScanLinksSuppressedInPreAndCode(t *testing.T) {
	got := ScanLinks("<pre>[[A]]</pre> <code>[[B]]</code> [[C]]")
	want := []string{"C"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ScanLinks = %v, want %v", got, want)
	}
}

func TestScanLinksSuppressedInMathAndRef(t *testing.T) {
	got := ScanLinks("<math>[[A]]</math> text <ref>[[B]]</ref> [[C]]")
	want := []string{"C"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ScanLinks = %v, want %v", got, want)
	}
}

func TestScanLinksSelfClosingNowiki(t *testing.T) {
	got := ScanLinks("a<nowiki/>[[Visible]]")
	want := []string{"Visible"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ScanLinks = %v, want %v", got, want)
	}
}

func TestScanLinksAdjacentBrackets(t *testing.T) {
	// Two links back to back with no separator between them.
	got := ScanLinks("[[First]][[Second]]")
	want := []string{"First", "Second"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ScanLinks = %v, want %v", got, want)
	}
}

func TestAcceptTargetLeadingColonDropped(t *testing.T) {
	ns := titles.NewNamespaceTable(nil)
	if _, ok := AcceptTarget(ns, ":Category:Foo"); ok {
		t.Fatal("expected a leading-colon escape to be dropped")
	}
}

func TestAcceptTargetNamespacedDropped(t *testing.T) {
	ns := titles.NewNamespaceTable(nil)
	if _, ok := AcceptTarget(ns, "Category:Foo"); ok {
		t.Fatal("expected a namespaced target to be dropped")
	}
	if _, ok := AcceptTarget(ns, "Talk:Foo"); ok {
		t.Fatal("expected a Talk-namespaced target to be dropped")
	}
}

func TestAcceptTargetInterwikiDropped(t *testing.T) {
	ns := titles.NewNamespaceTable(nil)
	if _, ok := AcceptTarget(ns, "wikt:foo"); ok {
		t.Fatal("expected an interwiki-prefixed target to be dropped")
	}
}

func TestAcceptTargetMainspacePasses(t *testing.T) {
	ns := titles.NewNamespaceTable(nil)
	target, ok := AcceptTarget(ns, "Plain Article")
	if !ok || target != "Plain Article" {
		t.Fatalf("AcceptTarget = (%q, %v), want (%q, true)", target, ok, "Plain Article")
	}
}

func TestAcceptTargetColonNotANamespaceIsKept(t *testing.T) {
	// "Time:12:00" has a colon but "Time" is not a known namespace or
	// interwiki prefix, so the link should survive this stage (it may
	// still fail canonical lookup downstream, but that is not this
	// function's job).
	ns := titles.NewNamespaceTable(nil)
	target, ok := AcceptTarget(ns, "Time:12:00")
	if !ok || target != "Time:12:00" {
		t.Fatalf("AcceptTarget = (%q, %v), want (%q, true)", target, ok, "Time:12:00")
	}
}
