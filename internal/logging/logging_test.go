package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/getsentry/sentry-go"
)

func TestLevelFromString(t *testing.T) {
	t.Parallel()

	cases := map[string]slog.Level{
		"error":   slog.LevelError,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" info ":  slog.LevelInfo,
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
	}
	for in, want := range cases {
		if got := levelFromString(in); got != want {
			t.Fatalf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSentryHandlerCapturesErrors(t *testing.T) {
	t.Parallel()

	var (
		buf      bytes.Buffer
		captured []*sentry.Event
	)
	base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(newSentryHandler(base, func(e *sentry.Event) {
		captured = append(captured, e)
	})).With("component", "pipeline")

	logger.Info("article posted", "url", "https://example.org/a")
	logger.WithGroup("fetch").Error("article fetch failed", "source", "BBC", "error", errors.New("timeout"))

	if len(captured) != 1 {
		t.Fatalf("expected one captured event, got %d", len(captured))
	}

	event := captured[0]
	if event.Message != "article fetch failed" {
		t.Fatalf("unexpected message: %s", event.Message)
	}
	if event.Extra["fetch.error"] != "timeout" {
		t.Fatalf("expected error text in extras, got %v", event.Extra)
	}
	if event.Tags["component"] != "pipeline" {
		t.Fatalf("expected component tag, got %v", event.Tags)
	}

	if !strings.Contains(buf.String(), "article posted") || !strings.Contains(buf.String(), "article fetch failed") {
		t.Fatalf("records must still reach the wrapped handler: %s", buf.String())
	}
}
