package parser

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
	"NewsRelay/internal/scanner"
)

// SelectorScanner fetches an HTML homepage and extracts links matching the source selector.
type SelectorScanner struct {
	fetcher ports.DocumentFetcher
}

var _ scanner.Scanner = (*SelectorScanner)(nil)

// NewSelectorScanner wires a document fetcher.
func NewSelectorScanner(fetcher ports.DocumentFetcher) *SelectorScanner {
	return &SelectorScanner{fetcher: fetcher}
}

// Name identifies the strategy inside the registry.
func (s *SelectorScanner) Name() string {
	return "selector"
}

// Scan downloads the homepage and runs ExtractLinks over it.
func (s *SelectorScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Candidate, error) {
	base, err := url.Parse(req.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid homepage url %s: %w", req.Source.URL, err)
	}

	doc, err := fetchDocument(ctx, s.fetcher, req.Source.URL)
	if err != nil {
		return nil, err
	}

	return ExtractLinks(doc, base, req.Source.Selector), nil
}

func fetchDocument(ctx context.Context, fetcher ports.DocumentFetcher, pageURL string) (*goquery.Document, error) {
	body, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}
