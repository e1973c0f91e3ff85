package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/route"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

// FlagIncludeCorridorDefault turns corridor airports on for requests that
// do not choose.
const FlagIncludeCorridorDefault = "include_corridor_default"

// ErrObservations marks failures to gather the observation set.
var ErrObservations = errors.New("gathering observations")

// Status is the outcome status seen by callers.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ObservationSource returns a record for every requested code.
type ObservationSource interface {
	ForRoute(ctx context.Context, codes []string) (weather.Observations, error)
}

// Request asks for one briefing.
type Request struct {
	Codes []string

	// IncludeCorridor adds airports near the route to the observation set.
	// Nil defers to the include_corridor_default flag.
	IncludeCorridor *bool
}

// Outcome is the result of a briefing request. Status is error only when the
// request failed before a summary could be produced, such as an invalid route.
type Outcome struct {
	ID         string     `json:"id"`
	Status     Status     `json:"status"`
	Text       string     `json:"text,omitempty"`
	Message    string     `json:"message,omitempty"`
	Tier       Tier       `json:"tier,omitempty"`
	Annotation Annotation `json:"annotation,omitempty"`
	Cause      string     `json:"cause,omitempty"`

	RetryAfter     time.Duration           `json:"-"`
	Route          *route.Route            `json:"-"`
	Corridor       []route.CorridorAirport `json:"-"`
	Observations   weather.Observations    `json:"-"`
	WeatherSummary weather.Summary         `json:"weatherSummary"`
	GeneratedAt    time.Time               `json:"generatedAt"`

	// Err is the underlying failure for error outcomes.
	Err error `json:"-"`
}

// Analysis is a route with its corridor airports and no weather.
type Analysis struct {
	Route    *route.Route
	Corridor []route.CorridorAirport
}

// ServiceConfig holds configuration for the briefing service.
type ServiceConfig struct {
	// Lookup resolves airport codes.
	Lookup route.Lookup

	// Candidates lists corridor candidates (optional; corridor disabled when nil).
	Candidates route.CandidateSource

	// Weather gathers observations.
	Weather ObservationSource

	// Generator produces summaries.
	Generator *Generator

	// Coalescer shares in-flight generations (optional).
	Coalescer *Coalescer[Summary]

	// Flags is optional.
	Flags FlagSource

	// Logger for service operations.
	Logger zerolog.Logger

	// CruiseSpeedKT for duration estimates (default: route.DefaultCruiseSpeedKT).
	CruiseSpeedKT float64

	// Corridor search options (default: route.DefaultCorridorOptions()).
	Corridor *route.CorridorOptions
}

// Service produces briefings for routes.
type Service struct {
	lookup     route.Lookup
	candidates route.CandidateSource
	weather    ObservationSource
	generator  *Generator
	coalescer  *Coalescer[Summary]
	flags      FlagSource
	logger     zerolog.Logger
	cruiseKT   float64
	corridor   route.CorridorOptions
}

// NewService creates a new briefing service.
func NewService(cfg ServiceConfig) *Service {
	coalescer := cfg.Coalescer
	if coalescer == nil {
		coalescer = NewCoalescer[Summary](DefaultGenerationTimeout, cfg.Logger)
	}

	generator := cfg.Generator
	if generator == nil {
		generator = NewGenerator(GeneratorConfig{Flags: cfg.Flags, Logger: cfg.Logger})
	}

	cruiseKT := cfg.CruiseSpeedKT
	if cruiseKT <= 0 {
		cruiseKT = route.DefaultCruiseSpeedKT
	}

	corridor := route.DefaultCorridorOptions()
	if cfg.Corridor != nil {
		corridor = *cfg.Corridor
	}

	return &Service{
		lookup:     cfg.Lookup,
		candidates: cfg.Candidates,
		weather:    cfg.Weather,
		generator:  generator,
		coalescer:  coalescer,
		flags:      cfg.Flags,
		logger:     cfg.Logger,
		cruiseKT:   cruiseKT,
		corridor:   corridor,
	}
}

// GenerateBriefing builds a briefing for codes with default options.
func (s *Service) GenerateBriefing(ctx context.Context, codes []string) Outcome {
	return s.Brief(ctx, Request{Codes: codes})
}

// Brief validates the route, waits for the full observation set and returns
// a summary. Generation failures never surface here: they become a local
// summary.
func (s *Service) Brief(ctx context.Context, req Request) Outcome {
	id := uuid.NewString()
	logger := s.logger.With().Str("briefing_id", id).Logger()

	analysis, err := s.analyze(ctx, req.Codes, s.includeCorridor(ctx, req))
	if err != nil {
		logger.Info().Err(err).Strs("codes", req.Codes).Msg("briefing rejected")
		return failed(id, err)
	}
	rt := analysis.Route.WithCorridor(analysis.Corridor)
	codes := rt.Path()

	obs, err := s.weather.ForRoute(ctx, codes)
	if err != nil {
		logger.Warn().Err(err).Str("route", rt.String()).Msg("gathering observations failed")
		return failed(id, fmt.Errorf("%w: %w", ErrObservations, err))
	}
	if !obs.Complete(codes) {
		logger.Warn().Str("route", rt.String()).Msg("observation set incomplete")
		return failed(id, fmt.Errorf("%w: missing records for %s", ErrObservations, strings.Join(obs.Missing(codes), ", ")))
	}

	summary, err := s.coalescer.Do(ctx, NewKey(codes), obs, rt, s.generator.generateFunc)
	if err != nil {
		logger.Warn().Err(err).Str("route", rt.String()).Msg("briefing abandoned")
		return failed(id, err)
	}

	return Outcome{
		ID:             id,
		Status:         StatusSuccess,
		Text:           summary.Text,
		Tier:           summary.Tier,
		Annotation:     summary.Annotation,
		Cause:          string(summary.Cause),
		RetryAfter:     summary.RetryAfter,
		Route:          rt,
		Corridor:       analysis.Corridor,
		Observations:   obs,
		WeatherSummary: weather.Summarize(codes, obs),
		GeneratedAt:    time.Now().UTC(),
	}
}

// Analyze builds the route and, when asked, its corridor airports.
func (s *Service) Analyze(ctx context.Context, req Request) (*Analysis, error) {
	return s.analyze(ctx, req.Codes, s.includeCorridor(ctx, req))
}

func (s *Service) analyze(ctx context.Context, codes []string, withCorridor bool) (*Analysis, error) {
	rt, err := route.Build(ctx, codes, s.lookup, route.WithCruiseSpeed(s.cruiseKT))
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{Route: rt}
	if !withCorridor || s.candidates == nil {
		return analysis, nil
	}

	corridor, err := route.Corridor(ctx, rt, s.candidates, s.corridor)
	if err != nil {
		s.logger.Warn().Err(err).Str("route", rt.String()).Msg("corridor search failed, continuing without it")
		return analysis, nil
	}
	analysis.Corridor = corridor
	return analysis, nil
}

func (s *Service) includeCorridor(ctx context.Context, req Request) bool {
	if req.IncludeCorridor != nil {
		return *req.IncludeCorridor
	}
	return s.flags != nil && s.flags.IsEnabled(ctx, FlagIncludeCorridorDefault)
}

// CoalescerStats exposes the coalescer counters.
func (s *Service) CoalescerStats() CoalescerStats {
	return s.coalescer.Stats()
}

func failed(id string, err error) Outcome {
	return Outcome{
		ID:          id,
		Status:      StatusError,
		Message:     err.Error(),
		Err:         err,
		GeneratedAt: time.Now().UTC(),
	}
}
