package parser

import (
	"context"
	"log/slog"

	"NewsRelay/internal/domain"
	"NewsRelay/internal/ports"
	"NewsRelay/internal/scanner"
)

// StrategySource implements CandidateSource via registered scanner strategies.
// Any failure is logged and degrades to no candidates.
type StrategySource struct {
	registry *scanner.Registry
	logger   *slog.Logger
}

var _ ports.CandidateSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry.
func NewStrategySource(reg *scanner.Registry, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		logger:   log,
	}
}

// Candidates resolves the source's scanner and returns its candidates.
func (s *StrategySource) Candidates(ctx context.Context, source domain.Source) []domain.Candidate {
	if s.registry == nil {
		s.logFailure("scanner registry is not configured", source)
		return nil
	}

	strategy, err := s.registry.Resolve(source.Scanner)
	if err != nil {
		s.logFailure("resolve scanner", source, "error", err)
		return nil
	}

	results, err := strategy.Scan(ctx, scanner.Request{Source: source})
	if err != nil {
		s.logFailure("homepage scan failed", source, "error", err)
		return nil
	}

	for i := range results {
		if results[i].Source == "" {
			results[i].Source = source.Name
		}
	}
	s.debug("source produced candidates", "source", source.Name, "scanner", source.Scanner, "count", len(results))
	return results
}

func (s *StrategySource) logFailure(msg string, source domain.Source, args ...any) {
	if s.logger == nil {
		return
	}
	args = append([]any{"source", source.Name, "url", source.URL, "stage", "homepage"}, args...)
	s.logger.Error(msg, args...)
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
