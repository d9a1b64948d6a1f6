package ports

import (
	"context"
	"time"

	"NewsRelay/internal/domain"
)

// DocumentFetcher downloads raw pages (homepages, feeds, articles).
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// CandidateSource extracts candidate articles from a configured source.
// Failures degrade to an empty slice.
type CandidateSource interface {
	Candidates(ctx context.Context, source domain.Source) []domain.Candidate
}

// ContentExtractor scrapes an article page; false means unscrapable.
type ContentExtractor interface {
	Extract(ctx context.Context, source domain.Source, articleURL string) (domain.ArticleContent, bool)
}

// Summarizer condenses article text; false means the upstream call failed.
type Summarizer interface {
	Summarize(ctx context.Context, text, title string) (string, bool)
}

// Publisher formats and sends a summary; false means the post failed.
type Publisher interface {
	Publish(ctx context.Context, summary string, article domain.Article) bool
}

// DedupStore records URLs that were already posted.
type DedupStore interface {
	HasBeenPosted(ctx context.Context, url string) (bool, error)
	MarkAsPosted(ctx context.Context, url string) error
}

// TextGenerator is an opaque LLM completion call.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Messenger posts to the destination channel bound at construction.
type Messenger interface {
	SendText(ctx context.Context, text string) error
	SendImage(ctx context.Context, imageURL, caption string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
