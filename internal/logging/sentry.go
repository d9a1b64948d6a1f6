package logging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

const sentryFlushTimeout = 2 * time.Second

// WithSentry wraps logger so that Error records are also reported to Sentry.
// The returned func flushes buffered events and must be called before exit.
func WithSentry(logger *slog.Logger, dsn, release string) (*slog.Logger, func(), error) {
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Release: release}); err != nil {
		return logger, func() {}, fmt.Errorf("init sentry: %w", err)
	}

	handler := newSentryHandler(logger.Handler(), func(event *sentry.Event) {
		sentry.CaptureEvent(event)
	})
	flush := func() { sentry.Flush(sentryFlushTimeout) }
	return slog.New(handler), flush, nil
}

type sentryHandler struct {
	next    slog.Handler
	attrs   []slog.Attr
	group   string
	capture func(*sentry.Event)
}

func newSentryHandler(next slog.Handler, capture func(*sentry.Event)) *sentryHandler {
	return &sentryHandler{next: next, capture: capture}
}

func (h *sentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sentryHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError && h.capture != nil {
		h.capture(h.event(record))
	}
	return h.next.Handle(ctx, record)
}

func (h *sentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.next = h.next.WithAttrs(attrs)
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	return &clone
}

func (h *sentryHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.next = h.next.WithGroup(name)
	clone.group = h.qualify(name)
	return &clone
}

func (h *sentryHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *sentryHandler) event(record slog.Record) *sentry.Event {
	event := sentry.NewEvent()
	event.Level = sentry.LevelError
	event.Message = record.Message
	event.Timestamp = record.Time
	if event.Extra == nil {
		event.Extra = map[string]interface{}{}
	}
	if event.Tags == nil {
		event.Tags = map[string]string{}
	}

	add := func(a slog.Attr) {
		value := a.Value.Resolve()
		var v any = value.Any()
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		event.Extra[a.Key] = v
		if a.Key == "component" || a.Key == "source" || a.Key == "stage" {
			event.Tags[a.Key] = value.String()
		}
	}

	for _, a := range h.attrs {
		add(a)
	}
	record.Attrs(func(a slog.Attr) bool {
		add(slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
		return true
	})
	return event
}
