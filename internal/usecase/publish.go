package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
)

const (
	// MaxSummaryLength keeps caption plus title and link under Telegram's 1024-character photo caption limit.
	MaxSummaryLength = 850
	ellipsis         = "..."
)

// Publisher formats summaries and hands them to a Messenger.
type Publisher struct {
	messenger ports.Messenger
	logger    *slog.Logger
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher wires a messenger.
func NewPublisher(messenger ports.Messenger, logger *slog.Logger) *Publisher {
	return &Publisher{messenger: messenger, logger: logger}
}

// Publish sends an image message when the article has an image URL, a text
// message otherwise. Transport errors are logged and reported as false.
func (p *Publisher) Publish(ctx context.Context, summary string, article domain.Article) bool {
	message := FormatMessage(summary, article.Candidate)

	var err error
	if article.ImageURL != "" {
		err = p.messenger.SendImage(ctx, article.ImageURL, message)
	} else {
		err = p.messenger.SendText(ctx, message)
	}

	if err != nil {
		if p.logger != nil {
			p.logger.Error("publish failed", "source", article.Source, "url", article.URL, "stage", "publish", "error", err)
		}
		return false
	}
	return true
}

// markdownEscaper escapes the characters Telegram's legacy Markdown treats as entity markers.
var markdownEscaper = strings.NewReplacer(`_`, `\_`, `*`, `\*`, "`", "\\`", `[`, `\[`)

// FormatMessage renders the Markdown post for a candidate. Title and summary
// are escaped so scraped or generated text cannot open stray entities.
func FormatMessage(summary string, candidate domain.Candidate) string {
	return fmt.Sprintf("📰 *%s*\n\n%s\n\n🔗 [Read the full article here](%s)",
		EscapeMarkdown(candidate.Title), EscapeMarkdown(TruncateSummary(summary)), candidate.URL)
}

// EscapeMarkdown escapes legacy Markdown entity markers in text.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// TruncateSummary cuts summaries longer than MaxSummaryLength characters and
// appends an ellipsis.
func TruncateSummary(summary string) string {
	runes := []rune(summary)
	if len(runes) <= MaxSummaryLength {
		return summary
	}
	return string(runes[:MaxSummaryLength]) + ellipsis
}
