package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/logging"
	"NewsRelay/internal/ports"
)

// SourceLoader returns the current source table. It is called before every cycle.
type SourceLoader func() ([]domain.Source, error)

// Daemon wires the interval driver with the pipeline and keeps the
// round-robin cursor between cycles.
type Daemon struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	load     SourceLoader
	batch    int
	logger   *slog.Logger

	// cursor is only touched from the scheduler's job goroutine.
	cursor int
}

// NewDaemon returns a helper to start/stop recurring cycles.
func NewDaemon(driver ports.Scheduler, pipeline *Pipeline, load SourceLoader, batch int, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Daemon{driver: driver, pipeline: pipeline, load: load, batch: batch, logger: logger}
}

// Start registers the cycle job with the provided scheduler.
func (d *Daemon) Start(ctx context.Context) error {
	if d.driver == nil || d.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		d.RunCycle(ctx, trigger)
	}

	return d.driver.Start(ctx, job)
}

// RunCycle reloads sources and processes the next batch. A loader error skips
// the cycle and leaves the cursor unchanged.
func (d *Daemon) RunCycle(ctx context.Context, trigger time.Time) []domain.Result {
	sources, err := d.load()
	if err != nil {
		d.logger.Error("load sources failed", "stage", "config", "error", err)
		return nil
	}

	d.logger.Debug("cycle triggered", "at", trigger)
	results, next := d.pipeline.Cycle(ctx, sources, d.cursor, d.batch)
	d.cursor = next
	return results
}

// Cursor reports the index of the next source to process.
func (d *Daemon) Cursor() int {
	return d.cursor
}

// Stop gracefully tears down the underlying scheduler.
func (d *Daemon) Stop(ctx context.Context) error {
	if d.driver == nil {
		return nil
	}

	return d.driver.Stop(ctx)
}
