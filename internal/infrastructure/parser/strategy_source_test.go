package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/infrastructure/fetcher"
	"NewsRelay/internal/logging"
	"NewsRelay/internal/scanner"
)

func newTestSource(f *fetcher.HTTPFetcher) *StrategySource {
	reg := scanner.NewRegistry()
	reg.Register(NewSelectorScanner(f))
	reg.Register(NewFeedScanner(f))
	return NewStrategySource(reg, logging.Discard())
}

func TestStrategySourceSelector(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
		<div class="dcr-card-headline"><a href="/world/2025/storm">Storm forces thousands to leave their homes</a></div>
		<div class="dcr-card-headline"><a href="/sport">Sport</a></div>
		</body></html>`))
	}))
	defer server.Close()

	src := newTestSource(fetcher.NewHTTPFetcher(server.Client(), "test", 0))
	got := src.Candidates(context.Background(), domain.Source{
		Name:     "Guardian",
		URL:      server.URL + "/international",
		Selector: ".dcr-card-headline > a",
		Scanner:  "selector",
	})

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(got))
	}
	if got[0].URL != server.URL+"/world/2025/storm" {
		t.Fatalf("unexpected url: %s", got[0].URL)
	}
	if got[0].Source != "Guardian" {
		t.Fatalf("expected source name to be filled, got %q", got[0].Source)
	}
}

func TestStrategySourceDegradesToEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := newTestSource(fetcher.NewHTTPFetcher(server.Client(), "test", 0))

	if got := src.Candidates(context.Background(), domain.Source{Name: "Down", URL: server.URL, Selector: "a", Scanner: "selector"}); len(got) != 0 {
		t.Fatalf("expected no candidates on HTTP 500, got %+v", got)
	}
	if got := src.Candidates(context.Background(), domain.Source{Name: "Odd", URL: server.URL, Scanner: "pdf"}); len(got) != 0 {
		t.Fatalf("expected no candidates for unknown scanner, got %+v", got)
	}

	unreachable := newTestSource(fetcher.NewHTTPFetcher(nil, "test", 100*time.Millisecond))
	if got := unreachable.Candidates(context.Background(), domain.Source{Name: "Nowhere", URL: "http://127.0.0.1:1/", Selector: "a", Scanner: "selector"}); len(got) != 0 {
		t.Fatalf("expected no candidates for unreachable host, got %+v", got)
	}
}

func TestStrategySourceFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Top stories</title>
<item><title>Parliament passes the new climate bill after long debate</title><link>https://news.example/climate</link></item>
<item><title>Short item</title><link>https://news.example/short</link></item>
<item><title>Parliament passes the new climate bill, live updates</title><link>https://news.example/climate</link></item>
<item><title>Scientists discover a new species in the deep ocean</title><link>/science/species</link></item>
</channel></rss>`))
	}))
	defer server.Close()

	src := newTestSource(fetcher.NewHTTPFetcher(server.Client(), "test", 0))
	got := src.Candidates(context.Background(), domain.Source{Name: "Feed", URL: server.URL + "/rss", Scanner: "feed"})

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	if got[0].URL != "https://news.example/climate" {
		t.Fatalf("unexpected first url: %s", got[0].URL)
	}
	if got[1].URL != server.URL+"/science/species" {
		t.Fatalf("relative feed link should resolve against feed url, got %s", got[1].URL)
	}
}
