package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"NewsRelay/internal/ports"
)

// PlaceholderSummary is returned, without calling the model, for empty article text.
const PlaceholderSummary = "Summary could not be generated."

// DefaultPromptTemplate asks for a short, neutral bullet summary. It is rendered
// with .Title and .Text.
const DefaultPromptTemplate = `You are a professional news summarizer for an international audience.
Condense the article titled "{{.Title}}" into a short, neutral, highly informative summary.

INSTRUCTIONS:
- Output only 2-3 bullet points.
- Each bullet presents one key fact, decision, or development from the article.
- Use clear, factual, journalistic language. No adjectives, opinions, or speculation.
- Prioritize in this order:
  1. Who or what happened,
  2. Where and when it happened,
  3. Why it matters (impact or consequence).
- The entire summary MUST be under 700 characters.
- At the very end, mention the source.
- Do not include any text before or after the bullet points.

ARTICLE TEXT:
{{.Text}}

SUMMARY:
`

// Summarizer turns article text into a short summary through a TextGenerator.
type Summarizer struct {
	generator ports.TextGenerator
	prompt    *template.Template
	logger    *slog.Logger
}

var _ ports.Summarizer = (*Summarizer)(nil)

// NewSummarizer parses promptTemplate (DefaultPromptTemplate when empty).
func NewSummarizer(generator ports.TextGenerator, promptTemplate string, logger *slog.Logger) (*Summarizer, error) {
	if strings.TrimSpace(promptTemplate) == "" {
		promptTemplate = DefaultPromptTemplate
	}
	tmpl, err := template.New("summary").Option("missingkey=error").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Summarizer{generator: generator, prompt: tmpl, logger: logger}, nil
}

// Summarize returns PlaceholderSummary for blank text. Otherwise it calls the
// generator once; any failure or blank completion yields ("", false).
func (s *Summarizer) Summarize(ctx context.Context, text, title string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return PlaceholderSummary, true
	}

	prompt, err := s.render(text, title)
	if err != nil {
		s.logFailure(title, err)
		return "", false
	}

	summary, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		s.logFailure(title, err)
		return "", false
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		s.logFailure(title, fmt.Errorf("empty completion"))
		return "", false
	}
	return summary, true
}

func (s *Summarizer) render(text, title string) (string, error) {
	var b strings.Builder
	data := struct{ Title, Text string }{Title: title, Text: text}
	if err := s.prompt.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

func (s *Summarizer) logFailure(title string, err error) {
	if s.logger != nil {
		s.logger.Error("summarization failed", "title", title, "stage", "summarize", "error", err)
	}
}
