package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"NewsRelay/internal/config"
	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
)

// ExtractContent joins the trimmed text of every paragraph and reads the
// og:image preview. It reports false when no paragraph text exists.
func ExtractContent(doc *goquery.Document) (domain.ArticleContent, bool) {
	text := paragraphText(doc)
	if text == "" {
		return domain.ArticleContent{}, false
	}
	return domain.ArticleContent{Text: text, ImageURL: previewImage(doc)}, true
}

func paragraphText(doc *goquery.Document) string {
	var parts []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := strings.TrimSpace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

func previewImage(doc *goquery.Document) string {
	content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	if !ok {
		return ""
	}
	return strings.TrimSpace(content)
}

// ContentExtractor fetches article pages and extracts their body and lead image.
type ContentExtractor struct {
	fetcher ports.DocumentFetcher
	logger  *slog.Logger
}

var _ ports.ContentExtractor = (*ContentExtractor)(nil)

// NewContentExtractor wires a document fetcher.
func NewContentExtractor(fetcher ports.DocumentFetcher, log *slog.Logger) *ContentExtractor {
	return &ContentExtractor{fetcher: fetcher, logger: log}
}

// Extract downloads articleURL and extracts its content. Transport failures
// and empty pages are logged and reported as false.
func (c *ContentExtractor) Extract(ctx context.Context, source domain.Source, articleURL string) (domain.ArticleContent, bool) {
	body, err := c.fetcher.Fetch(ctx, articleURL)
	if err != nil {
		c.logFailure("article fetch failed", source, articleURL, err)
		return domain.ArticleContent{}, false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		c.logFailure("article parse failed", source, articleURL, err)
		return domain.ArticleContent{}, false
	}

	if source.Extractor != config.ExtractorReadability {
		content, ok := ExtractContent(doc)
		if !ok {
			c.logEmpty(source, articleURL)
		}
		return content, ok
	}

	text, err := readableText(body, articleURL)
	if err != nil {
		c.logFailure("readability extraction failed", source, articleURL, err)
		return domain.ArticleContent{}, false
	}
	if text == "" {
		c.logEmpty(source, articleURL)
		return domain.ArticleContent{}, false
	}
	return domain.ArticleContent{Text: text, ImageURL: previewImage(doc)}, true
}

func readableText(body []byte, articleURL string) (string, error) {
	parsed, err := url.Parse(articleURL)
	if err != nil {
		return "", fmt.Errorf("parse article url: %w", err)
	}
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", err
	}
	return collapseSpace(article.TextContent), nil
}

func (c *ContentExtractor) logFailure(msg string, source domain.Source, articleURL string, err error) {
	if c.logger != nil {
		c.logger.Error(msg, "source", source.Name, "url", articleURL, "stage", "scrape", "error", err)
	}
}

func (c *ContentExtractor) logEmpty(source domain.Source, articleURL string) {
	if c.logger != nil {
		c.logger.Warn("no paragraph text found", "source", source.Name, "url", articleURL, "stage", "scrape")
	}
}
