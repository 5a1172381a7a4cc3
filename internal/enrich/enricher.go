package enrich

import (
	"context"
	"log/slog"
)

const (
	// DisabledPrefix marks passthrough text produced without a configured
	// provider credential.
	DisabledPrefix = "(AI Disabled) "
	// ErrorPrefix marks passthrough text produced after a provider failure.
	ErrorPrefix = "(AI Error) "
)

// Generator produces enriched text from raw message text.
type Generator interface {
	GenerateStory(ctx context.Context, text string) (string, error)
}

// Result carries enriched text plus an explicit degraded flag so callers can
// distinguish clean output from fallback text without prefix sniffing.
type Result struct {
	Text     string
	Degraded bool
}

// Service turns raw message text into polished content. Enrichment is best
// effort: it never fails, it degrades.
type Service struct {
	generator Generator
	logger    *slog.Logger
}

// NewService creates an enrichment service. A nil generator means no provider
// credential is configured; all input then passes through with DisabledPrefix.
func NewService(log *slog.Logger, generator Generator) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		generator: generator,
		logger:    log.With(slog.String("service", "enrich")),
	}
}

// Enabled reports whether a generator is configured.
func (s *Service) Enabled() bool {
	return s.generator != nil
}

// Enrich transforms text through the generator, falling back to the marked
// original on any failure.
func (s *Service) Enrich(ctx context.Context, text string) Result {
	if s.generator == nil {
		s.logger.Warn("generator not configured, returning original text")
		return Result{Text: DisabledPrefix + text, Degraded: true}
	}
	out, err := s.generator.GenerateStory(ctx, text)
	if err != nil {
		s.logger.Error("enrichment failed", slog.Any("error", err))
		return Result{Text: ErrorPrefix + text, Degraded: true}
	}
	return Result{Text: out}
}
