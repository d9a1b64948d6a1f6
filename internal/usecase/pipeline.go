package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/logging"
	"NewsRelay/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.CandidateSource
	Extractor  ports.ContentExtractor
	Summarizer ports.Summarizer
	Publisher  ports.Publisher
	Store      ports.DedupStore
	Logger     *slog.Logger
}

// Pipeline implements the scrape, summarize and post workflow for news sources.
type Pipeline struct {
	source     ports.CandidateSource
	extractor  ports.ContentExtractor
	summarizer ports.Summarizer
	publisher  ports.Publisher
	store      ports.DedupStore
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Pipeline{
		source:     deps.Source,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		publisher:  deps.Publisher,
		store:      deps.Store,
		logger:     logger,
	}
}

// Cycle processes up to batch sources starting at cursor and returns the
// results with the cursor for the next cycle. batch <= 0 processes every
// source once. Cancelling ctx stops the cycle between sources and between
// candidates; the returned cursor then points at the first source that was
// not fully processed.
func (p *Pipeline) Cycle(ctx context.Context, sources []domain.Source, cursor, batch int) ([]domain.Result, int) {
	n := len(sources)
	if n == 0 {
		return nil, 0
	}

	start := cursor % n
	if start < 0 {
		start += n
	}
	count := batch
	if count <= 0 || count > n {
		count = n
	}

	logger := p.logger.With("cycle", uuid.NewString())
	logger.Info("cycle started", "sources", count, "cursor", start)

	var (
		results   []domain.Result
		processed int
	)
	for processed < count {
		if ctx.Err() != nil {
			logger.Info("cycle interrupted", "processed", processed)
			break
		}
		source := sources[(start+processed)%n]
		sourceResults, complete := p.processSource(ctx, logger, source)
		results = append(results, sourceResults...)
		if !complete {
			logger.Info("cycle interrupted", "processed", processed)
			break
		}
		processed++
	}

	logCycleSummary(logger, results)
	return results, (start + processed) % n
}

// ProcessSource runs every candidate of one source through the pipeline.
func (p *Pipeline) ProcessSource(ctx context.Context, source domain.Source) []domain.Result {
	results, _ := p.processSource(ctx, p.logger.With("cycle", uuid.NewString()), source)
	return results
}

// processSource reports false when a stop left candidates unattempted.
func (p *Pipeline) processSource(ctx context.Context, logger *slog.Logger, source domain.Source) ([]domain.Result, bool) {
	logger = logger.With("source", source.Name)

	candidates := p.source.Candidates(ctx, source)
	if len(candidates) == 0 {
		logger.Info("no new articles", "url", source.URL)
		return nil, true
	}
	logger.Debug("candidates extracted", "count", len(candidates))

	results := make([]domain.Result, 0, len(candidates))
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			logger.Info("stop requested", "remaining", len(candidates)-len(results))
			return results, false
		}
		outcome := p.processCandidate(ctx, logger, source, candidate)
		logger.Info("candidate processed", "url", candidate.URL, "outcome", string(outcome))
		results = append(results, domain.Result{Candidate: candidate, Outcome: outcome})
	}
	return results, true
}

func (p *Pipeline) processCandidate(ctx context.Context, logger *slog.Logger, source domain.Source, candidate domain.Candidate) domain.Outcome {
	posted, err := p.store.HasBeenPosted(ctx, candidate.URL)
	if err != nil {
		logger.Error("dedup check failed", "url", candidate.URL, "stage", "dedup", "error", err)
		return domain.OutcomeDedupCheckFailed
	}
	if posted {
		return domain.OutcomeAlreadyPosted
	}

	content, ok := p.extractor.Extract(ctx, source, candidate.URL)
	if !ok {
		return domain.OutcomeScrapeFailed
	}

	summary, ok := p.summarizer.Summarize(ctx, content.Text, candidate.Title)
	if !ok {
		return domain.OutcomeSummarizeFailed
	}

	article := domain.Article{Candidate: candidate, ImageURL: content.ImageURL}
	if !p.publisher.Publish(ctx, summary, article) {
		return domain.OutcomePostFailed
	}

	// The post already went out; a failed record means it may be posted again later.
	if err := p.store.MarkAsPosted(ctx, candidate.URL); err != nil {
		logger.Error("record posted url failed", "url", candidate.URL, "stage", "record", "error", err)
	}
	return domain.OutcomePosted
}

func logCycleSummary(logger *slog.Logger, results []domain.Result) {
	counts := domain.Tally(results)
	attrs := make([]any, 0, 2*len(counts)+4)
	skipped := 0
	for outcome, n := range counts {
		attrs = append(attrs, string(outcome), n)
		if outcome.Skipped() {
			skipped += n
		}
	}
	attrs = append(attrs, "candidates", len(results), "skipped", skipped)
	logger.Info("cycle done", attrs...)
}
