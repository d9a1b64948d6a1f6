package parser

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func TestExtractLinksCapsAtTenInDocumentOrder(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 14; i++ {
		fmt.Fprintf(&b, `<a class="headline" href="/story/%d">Breaking story number %d about world events</a>`, i, i)
	}
	doc := mustDoc(t, "<html><body>"+b.String()+"</body></html>")

	got := ExtractLinks(doc, mustURL(t, "https://news.example/"), "a.headline")
	if len(got) != MaxCandidates {
		t.Fatalf("expected %d candidates, got %d", MaxCandidates, len(got))
	}
	for i, c := range got {
		want := fmt.Sprintf("https://news.example/story/%d", i)
		if c.URL != want {
			t.Fatalf("candidate %d: expected %s, got %s", i, want, c.URL)
		}
	}
}

func TestExtractLinksTitleFilter(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `
	<div>
	  <a href="/five">Only five words right here</a>
	  <a href="/empty">   </a>
	  <a>Six words but there is no href</a>
	  <a href="">Six words but the href is blank</a>
	  <a href="/six">Exactly six words in this title</a>
	</div>`)

	got := ExtractLinks(doc, mustURL(t, "https://news.example/section/"), "a")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://news.example/six" {
		t.Fatalf("unexpected url: %s", got[0].URL)
	}
	if got[0].Title != "Exactly six words in this title" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
}

func TestExtractLinksDeduplicatesResolvedURLs(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `
	<a href="/world/a">First headline about the same story today</a>
	<a href="https://news.example/world/a">Second headline about the same story today</a>
	<a href="world/b">Another headline about a different story today</a>`)

	got := ExtractLinks(doc, mustURL(t, "https://news.example/"), "a")
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	if got[0].Title != "First headline about the same story today" {
		t.Fatalf("first occurrence should win, got %q", got[0].Title)
	}
	if got[1].URL != "https://news.example/world/b" {
		t.Fatalf("unexpected second url: %s", got[1].URL)
	}
}

func TestExtractLinksNormalizesTitleAndRejectsNonHTTP(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `
	<a href="mailto:desk@news.example">Write to the news desk with your tips</a>
	<a href="javascript:void(0)">Open the menu with all of the sections</a>
	<h2 class="title"><a href="//cdn.news.example/x">
	    Markets   rally
	    as <span>central bank</span> holds rates
	</a></h2>`)

	got := ExtractLinks(doc, mustURL(t, "https://news.example/"), "a")
	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d: %+v", len(got), got)
	}
	if got[0].Title != "Markets rally as central bank holds rates" {
		t.Fatalf("unexpected title: %q", got[0].Title)
	}
	if got[0].URL != "https://cdn.news.example/x" {
		t.Fatalf("unexpected url: %s", got[0].URL)
	}
}
