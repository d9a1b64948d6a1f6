package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchSendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html><p>hello</p></html>"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(server.Client(), "TestAgent/1.0", 0)
	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if string(body) != "<html><p>hello</p></html>" {
		t.Fatalf("unexpected body: %s", body)
	}
	if gotUA != "TestAgent/1.0" {
		t.Fatalf("unexpected user agent: %q", gotUA)
	}
}

func TestFetchNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	f := NewHTTPFetcher(server.Client(), "", 0)
	_, err := f.Fetch(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", statusErr.StatusCode)
	}
}

func TestFetchTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := NewHTTPFetcher(nil, "", 50*time.Millisecond)
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}
