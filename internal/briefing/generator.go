package briefing

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/route"
	"github.com/AmeyaMprojects/pilot-brief/internal/textgen"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

// Flag keys read by the generator.
const (
	FlagDisableAISummary = "disable_ai_summary"
	FlagCompactOnly      = "compact_only"
)

// Tier names the stage that produced a summary.
type Tier string

const (
	TierDetailed Tier = "detailed"
	TierCompact  Tier = "compact"
	TierLocal    Tier = "local"
)

// Annotation tells the caller how to present a local summary.
type Annotation string

const (
	AnnotationNone      Annotation = "none"
	AnnotationTransient Annotation = "transient" // quota: try again shortly
	AnnotationDegraded  Annotation = "degraded"
)

// Summary is the generator result.
type Summary struct {
	Text       string        `json:"text"`
	Tier       Tier          `json:"tier"`
	Annotation Annotation    `json:"annotation"`
	Cause      textgen.Kind  `json:"cause,omitempty"`
	RetryAfter time.Duration `json:"-"`
}

// TextGenerator is the external text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, req textgen.Request) (string, error)
}

// FlagSource reports boolean feature flags.
type FlagSource interface {
	IsEnabled(ctx context.Context, key string) bool
}

// GeneratorConfig holds configuration for the generator.
type GeneratorConfig struct {
	// Client is the text-generation service. Nil behaves like a missing API key.
	Client TextGenerator

	// Flags is optional.
	Flags FlagSource

	// Metrics is optional.
	Metrics *Metrics

	// Logger for generator operations.
	Logger zerolog.Logger
}

// Generator runs the detailed, compact and local tiers in order.
type Generator struct {
	client  TextGenerator
	flags   FlagSource
	metrics *Metrics
	logger  zerolog.Logger
}

// NewGenerator creates a new generator.
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{
		client:  cfg.Client,
		flags:   cfg.Flags,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// Generate always returns a summary. The compact tier runs only after the
// detailed tier hit the token limit; every other failure goes to the local tier.
func (g *Generator) Generate(ctx context.Context, obs weather.Observations, rt *route.Route) Summary {
	start := time.Now()
	s := g.generate(ctx, obs, rt)
	g.metrics.recordSummary(ctx, s, time.Since(start))

	g.logger.Info().
		Str("route", rt.String()).
		Str("tier", string(s.Tier)).
		Str("annotation", string(s.Annotation)).
		Str("cause", string(s.Cause)).
		Dur("duration", time.Since(start)).
		Msg("summary generated")
	return s
}

// generateFunc adapts Generate to GenerateFunc.
func (g *Generator) generateFunc(ctx context.Context, obs weather.Observations, rt *route.Route) (Summary, error) {
	return g.Generate(ctx, obs, rt), nil
}

func (g *Generator) generate(ctx context.Context, obs weather.Observations, rt *route.Route) Summary {
	if g.client == nil {
		return g.local(obs, rt, &textgen.Error{Kind: textgen.KindConfigurationMissing})
	}
	if g.enabled(ctx, FlagDisableAISummary) {
		return Summary{
			Text:       LocalSummary(obs, rt, AnnotationDegraded),
			Tier:       TierLocal,
			Annotation: AnnotationDegraded,
		}
	}

	if !g.enabled(ctx, FlagCompactOnly) {
		text, err := g.client.Generate(ctx, DetailedRequest(obs, rt))
		if err == nil {
			return Summary{Text: text, Tier: TierDetailed, Annotation: AnnotationNone}
		}
		if textgen.KindOf(err) != textgen.KindTokenLimitExceeded {
			return g.local(obs, rt, err)
		}
		g.logger.Warn().Str("route", rt.String()).Msg("detailed summary truncated, retrying with compact prompt")
	}

	text, err := g.client.Generate(ctx, CompactRequest(obs, rt))
	if err == nil {
		return Summary{Text: text, Tier: TierCompact, Annotation: AnnotationNone}
	}
	return g.local(obs, rt, err)
}

// local builds the tier 3 summary for cause.
func (g *Generator) local(obs weather.Observations, rt *route.Route, cause error) Summary {
	kind := textgen.KindOf(cause)

	annotation := AnnotationDegraded
	if kind == textgen.KindQuotaExceeded {
		annotation = AnnotationTransient
	}

	var retryAfter time.Duration
	var tgErr *textgen.Error
	if errors.As(cause, &tgErr) {
		retryAfter = tgErr.RetryAfter
	}

	g.logger.Warn().
		Err(cause).
		Str("route", rt.String()).
		Str("cause", string(kind)).
		Msg("falling back to local summary")

	return Summary{
		Text:       LocalSummary(obs, rt, annotation),
		Tier:       TierLocal,
		Annotation: annotation,
		Cause:      kind,
		RetryAfter: retryAfter,
	}
}

func (g *Generator) enabled(ctx context.Context, key string) bool {
	return g.flags != nil && g.flags.IsEnabled(ctx, key)
}
