package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"NewsRelay/internal/domain"
)

const (
	// MaxCandidates caps how many links one extraction returns.
	MaxCandidates = 10
	// Titles with this many words or fewer are navigation or junk links.
	minTitleWords = 5
)

// ExtractLinks selects anchors matching selector and returns up to MaxCandidates
// candidates in document order. Hrefs are resolved against base; the first
// occurrence of a resolved URL wins.
func ExtractLinks(doc *goquery.Document, base *url.URL, selector string) []domain.Candidate {
	set := newCandidateSet(base, MaxCandidates)

	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		set.add(sel.Text(), href)
		return !set.full()
	})

	return set.items
}

type candidateSet struct {
	base  *url.URL
	limit int
	seen  map[string]struct{}
	items []domain.Candidate
}

func newCandidateSet(base *url.URL, limit int) *candidateSet {
	return &candidateSet{
		base:  base,
		limit: limit,
		seen:  map[string]struct{}{},
		items: make([]domain.Candidate, 0, limit),
	}
}

func (s *candidateSet) full() bool {
	return len(s.items) >= s.limit
}

// add reports whether the link was accepted.
func (s *candidateSet) add(rawTitle, href string) bool {
	if s.full() {
		return false
	}

	title := collapseSpace(rawTitle)
	href = strings.TrimSpace(href)
	if title == "" || href == "" || len(strings.Fields(title)) <= minTitleWords {
		return false
	}

	abs, ok := resolve(s.base, href)
	if !ok {
		return false
	}
	if _, dup := s.seen[abs]; dup {
		return false
	}

	s.seen[abs] = struct{}{}
	s.items = append(s.items, domain.Candidate{Title: title, URL: abs})
	return true
}

func resolve(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	abs := ref
	if base != nil {
		abs = base.ResolveReference(ref)
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	return abs.String(), true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
