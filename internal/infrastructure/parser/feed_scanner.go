package parser

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mmcdole/gofeed"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
	"NewsRelay/internal/scanner"
)

// FeedScanner reads candidates from an RSS or Atom feed instead of homepage markup.
// Items go through the same title filter, URL de-duplication and cap as ExtractLinks.
type FeedScanner struct {
	fetcher ports.DocumentFetcher
}

var _ scanner.Scanner = (*FeedScanner)(nil)

// NewFeedScanner wires a document fetcher.
func NewFeedScanner(fetcher ports.DocumentFetcher) *FeedScanner {
	return &FeedScanner{fetcher: fetcher}
}

// Name identifies the strategy inside the registry.
func (f *FeedScanner) Name() string {
	return "feed"
}

// Scan downloads and parses the feed, keeping items in feed order.
func (f *FeedScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Candidate, error) {
	base, err := url.Parse(req.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed url %s: %w", req.Source.URL, err)
	}

	body, err := f.fetcher.Fetch(ctx, req.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.Source.URL, err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	set := newCandidateSet(base, MaxCandidates)
	for _, item := range feed.Items {
		if set.full() {
			break
		}
		if item == nil {
			continue
		}
		set.add(item.Title, item.Link)
	}
	return set.items, nil
}
