package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"NewsRelay/internal/config"
	"NewsRelay/internal/domain"
	"NewsRelay/internal/infrastructure/fetcher"
	"NewsRelay/internal/infrastructure/llm"
	"NewsRelay/internal/infrastructure/parser"
	"NewsRelay/internal/infrastructure/scheduler"
	"NewsRelay/internal/infrastructure/storage"
	"NewsRelay/internal/infrastructure/telegram"
	"NewsRelay/internal/logging"
	"NewsRelay/internal/ports"
	"NewsRelay/internal/scanner"
	"NewsRelay/internal/usecase"
)

// ErrConfig marks failures caused by configuration rather than runtime conditions.
var ErrConfig = errors.New("configuration error")

const shutdownTimeout = 30 * time.Second

// Options narrow what a run processes.
type Options struct {
	// SourceNames restricts the run to these configured sources; empty means all.
	SourceNames []string
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	opts     Options
	logger   *slog.Logger
	store    storage.Store
	pipeline *usecase.Pipeline
}

// New validates credentials and sources before any client is built, then
// wires the adapters into the pipeline.
func New(ctx context.Context, cfg config.Config, opts Options, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if _, err := selectSources(cfg, opts.SourceNames); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	generator, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	summarizer, err := usecase.NewSummarizer(generator, cfg.LLM.PromptTemplate, baseLogger.With("component", "summarizer"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open dedup store: %w", err)
	}

	docs := fetcher.NewHTTPFetcher(nil, cfg.Fetch.UserAgent, cfg.Fetch.TimeoutDuration())

	registry := scanner.NewRegistry()
	registry.Register(parser.NewSelectorScanner(docs))
	registry.Register(parser.NewFeedScanner(docs))

	var messenger ports.Messenger = telegram.NewNotifier(cfg.Notifications.Telegram)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     parser.NewStrategySource(registry, baseLogger.With("component", "source")),
		Extractor:  parser.NewContentExtractor(docs, baseLogger.With("component", "extractor")),
		Summarizer: summarizer,
		Publisher:  usecase.NewPublisher(messenger, baseLogger.With("component", "publisher")),
		Store:      store,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		opts:     opts,
		logger:   baseLogger,
		store:    store,
		pipeline: pipeline,
	}, nil
}

// RunOnce processes every selected source a single time.
func (a *Application) RunOnce(ctx context.Context) ([]domain.Result, error) {
	sources, err := a.loadSources()
	if err != nil {
		return nil, err
	}

	results, _ := a.pipeline.Cycle(ctx, sources, 0, 0)
	return results, nil
}

// RunDaemon repeats cycles every interval until ctx is cancelled. Each cycle
// processes up to batch sources, continuing round-robin where the last stopped.
func (a *Application) RunDaemon(ctx context.Context, interval time.Duration, batch int) error {
	if interval <= 0 {
		interval = a.cfg.Scheduler.IntervalDuration()
	}

	daemon := usecase.NewDaemon(
		scheduler.NewIntervalScheduler(interval),
		a.pipeline,
		a.loadSources,
		batch,
		a.logger.With("component", "daemon"),
	)

	a.logger.Info("daemon started", "interval", interval, "batch", batch)
	if err := daemon.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	a.logger.Info("daemon stopping")

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := daemon.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// Close releases the dedup store.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (a *Application) loadSources() ([]domain.Source, error) {
	sources, err := selectSources(a.cfg, a.opts.SourceNames)
	if err != nil {
		return nil, err
	}
	return config.DomainSources(sources), nil
}

func selectSources(cfg config.Config, names []string) ([]config.SourceConfig, error) {
	all, err := cfg.ResolveSources()
	if err != nil {
		return nil, err
	}
	return config.SelectSources(all, names)
}
