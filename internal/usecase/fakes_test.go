package usecase

import (
	"context"
	"errors"
	"sync"

	"NewsRelay/internal/domain"
)

type fakeSource struct {
	bySource map[string][]domain.Candidate
	calls    []string
}

func (f *fakeSource) Candidates(_ context.Context, source domain.Source) []domain.Candidate {
	f.calls = append(f.calls, source.Name)
	return f.bySource[source.Name]
}

type fakeExtractor struct {
	failing map[string]bool
	images  map[string]string
}

func (f *fakeExtractor) Extract(_ context.Context, _ domain.Source, articleURL string) (domain.ArticleContent, bool) {
	if f.failing[articleURL] {
		return domain.ArticleContent{}, false
	}
	return domain.ArticleContent{Text: "body of " + articleURL, ImageURL: f.images[articleURL]}, true
}

type fakeSummarizer struct {
	fail bool
}

func (f *fakeSummarizer) Summarize(_ context.Context, _ string, title string) (string, bool) {
	if f.fail {
		return "", false
	}
	return "summary: " + title, true
}

type fakePublisher struct {
	failing map[string]bool
	posted  []domain.Article
	onPost  func()
}

func (f *fakePublisher) Publish(_ context.Context, _ string, article domain.Article) bool {
	if f.failing[article.URL] {
		return false
	}
	f.posted = append(f.posted, article)
	if f.onPost != nil {
		f.onPost()
	}
	return true
}

type memoryStore struct {
	mu       sync.Mutex
	urls     map[string]bool
	marks    map[string]int
	readErr  error
	writeErr error
}

func newMemoryStore(urls ...string) *memoryStore {
	s := &memoryStore{urls: map[string]bool{}, marks: map[string]int{}}
	for _, u := range urls {
		s.urls[u] = true
	}
	return s
}

func (s *memoryStore) HasBeenPosted(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return false, s.readErr
	}
	return s.urls[url], nil
}

func (s *memoryStore) MarkAsPosted(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.urls[url] = true
	s.marks[url]++
	return nil
}

var errBoom = errors.New("boom")

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeMessenger struct {
	texts  []string
	images []string
	err    error
}

func (f *fakeMessenger) SendText(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendImage(_ context.Context, imageURL, caption string) error {
	if f.err != nil {
		return f.err
	}
	f.images = append(f.images, imageURL)
	f.texts = append(f.texts, caption)
	return nil
}
