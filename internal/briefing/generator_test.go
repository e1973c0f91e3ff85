package briefing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmeyaMprojects/pilot-brief/internal/airport"
	"github.com/AmeyaMprojects/pilot-brief/internal/briefing"
	"github.com/AmeyaMprojects/pilot-brief/internal/provider/resilience"
	"github.com/AmeyaMprojects/pilot-brief/internal/route"
	"github.com/AmeyaMprojects/pilot-brief/internal/textgen"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

var testReports = map[string]string{
	"KSFO": "KSFO 121756Z 28015G25KT 10SM FEW008 18/12 A3002",
	"KSJC": "KSJC 121753Z 31008KT 10SM CLR 21/09 A3001",
	"KLAX": "KLAX 121753Z 25010KT 6SM HZ SCT020 20/14 A2998",
	"KSBA": "KSBA 121753Z 24006KT 3SM BR OVC008 15/14 A2999",
	"KFAT": "KFAT 121753Z 32012KT 10SM SKC 28/06 A2995",
	"KBUR": "KBUR 121753Z 16005KT 8SM FEW030 24/12 A2997",
}

func buildRoute(t *testing.T, codes ...string) *route.Route {
	t.Helper()
	dir := airport.NewDirectory(airport.ServiceConfig{Logger: zerolog.Nop()})
	rt, err := route.Build(context.Background(), codes, dir)
	require.NoError(t, err)
	return rt
}

func observationsFor(codes ...string) weather.Observations {
	obs := make(weather.Observations, len(codes))
	at := time.Date(2025, 6, 12, 17, 56, 0, 0, time.UTC)
	for _, c := range codes {
		if raw, ok := testReports[c]; ok {
			obs[c] = weather.ObservationRecord{Code: c, Status: weather.StatusSuccess, RawText: raw, FetchedAt: at}
		} else {
			obs[c] = weather.Unavailable(c, "no observation reported", at)
		}
	}
	return obs
}

// scriptedClient returns its responses in order, repeating the last one.
type scriptedClient struct {
	mu        sync.Mutex
	responses []scripted
	requests  []textgen.Request
	calls     atomic.Int32
}

type scripted struct {
	text string
	err  error
}

func (c *scriptedClient) Generate(_ context.Context, req textgen.Request) (string, error) {
	n := int(c.calls.Add(1))
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	r := c.responses[min(n, len(c.responses))-1]
	return r.text, r.err
}

type staticFlags map[string]bool

func (f staticFlags) IsEnabled(_ context.Context, key string) bool {
	return f[key]
}

func newTextgenClient(url, apiKey string) *textgen.Client {
	cfg := resilience.DefaultClientConfig("textgen-test")
	cfg.MaxRetries = 0
	return textgen.NewClient(textgen.ClientConfig{
		APIKey:     apiKey,
		BaseURL:    url,
		HTTPClient: resilience.NewClient(cfg),
	})
}

func generateVia(gen *briefing.Generator) briefing.GenerateFunc[briefing.Summary] {
	return func(ctx context.Context, obs weather.Observations, rt *route.Route) (briefing.Summary, error) {
		return gen.Generate(ctx, obs, rt), nil
	}
}

func TestGenerator_DetailedTier(t *testing.T) {
	client := &scriptedClient{responses: []scripted{{text: "1. Overall: VFR"}}}
	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: client, Logger: zerolog.Nop()})
	rt := buildRoute(t, "KSFO", "KSJC", "KLAX")

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KSJC", "KLAX"), rt)

	assert.Equal(t, "1. Overall: VFR", s.Text)
	assert.Equal(t, briefing.TierDetailed, s.Tier)
	assert.Equal(t, briefing.AnnotationNone, s.Annotation)
	require.Len(t, client.requests, 1)
	assert.Equal(t, briefing.DetailedMaxOutputTokens, client.requests[0].MaxOutputTokens)
	assert.InDelta(t, briefing.DetailedTemperature, client.requests[0].Temperature, 1e-9)
}

func TestGenerator_QuotaFallsBackToLocalTransient(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED",` +
			`"details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"30s"}]}}`))
	}))
	defer server.Close()

	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: newTextgenClient(server.URL, "key"), Logger: zerolog.Nop()})
	c := briefing.NewCoalescer[briefing.Summary](time.Second, zerolog.Nop())
	rt := buildRoute(t, "KSFO", "KLAX")

	s, err := c.Do(context.Background(), briefing.NewKey(rt.Codes()), observationsFor("KSFO", "KLAX"), rt, generateVia(gen))
	require.NoError(t, err)

	assert.Equal(t, briefing.TierLocal, s.Tier)
	assert.Equal(t, briefing.AnnotationTransient, s.Annotation)
	assert.Equal(t, textgen.KindQuotaExceeded, s.Cause)
	assert.Equal(t, 30*time.Second, s.RetryAfter)
	assert.Contains(t, s.Text, briefing.NoteTransient)
	assert.NotContains(t, s.Text, briefing.NoteDegraded)
	assert.Equal(t, int32(1), calls.Load(), "quota must not trigger the compact tier")
}

func TestGenerator_TokenLimitThenCompactText(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model"},"finishReason":"MAX_TOKENS"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"compact brief"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: newTextgenClient(server.URL, "key"), Logger: zerolog.Nop()})
	rt := buildRoute(t, "KSFO", "KSJC", "KLAX")

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KSJC", "KLAX"), rt)

	assert.Equal(t, "compact brief", s.Text)
	assert.Equal(t, briefing.TierCompact, s.Tier)
	assert.Equal(t, briefing.AnnotationNone, s.Annotation)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerator_TruncatedDetailedTextUsesCompact(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"1. Overall flight conditions: VFR at KSFO with gusts to 25 kt, and en route the"}]},"finishReason":"MAX_TOKENS"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"compact brief"}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: newTextgenClient(server.URL, "key"), Logger: zerolog.Nop()})
	rt := buildRoute(t, "KSFO", "KSJC", "KLAX")

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KSJC", "KLAX"), rt)

	assert.Equal(t, "compact brief", s.Text)
	assert.Equal(t, briefing.TierCompact, s.Tier)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerator_CompactRequestParameters(t *testing.T) {
	client := &scriptedClient{responses: []scripted{
		{err: &textgen.Error{Kind: textgen.KindTokenLimitExceeded}},
		{text: "ok"},
	}}
	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: client, Logger: zerolog.Nop()})
	rt := buildRoute(t, "KSFO", "KLAX")

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KLAX"), rt)
	assert.Equal(t, briefing.TierCompact, s.Tier)

	require.Len(t, client.requests, 2)
	assert.Equal(t, briefing.CompactMaxOutputTokens, client.requests[1].MaxOutputTokens)
	assert.InDelta(t, briefing.CompactTemperature, client.requests[1].Temperature, 1e-9)
	assert.Contains(t, client.requests[1].Prompt, "exactly 5 lines")
}

func TestGenerator_NonTruncationFailuresSkipCompact(t *testing.T) {
	kinds := []textgen.Kind{
		textgen.KindMalformedResponse,
		textgen.KindUnavailable,
		textgen.KindConfigurationMissing,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			client := &scriptedClient{responses: []scripted{{err: &textgen.Error{Kind: kind}}}}
			gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: client, Logger: zerolog.Nop()})
			rt := buildRoute(t, "KSFO", "KLAX")

			s := gen.Generate(context.Background(), observationsFor("KSFO", "KLAX"), rt)

			assert.Equal(t, briefing.TierLocal, s.Tier)
			assert.Equal(t, briefing.AnnotationDegraded, s.Annotation)
			assert.Equal(t, kind, s.Cause)
			assert.Contains(t, s.Text, briefing.NoteDegraded)
			assert.Equal(t, int32(1), client.calls.Load())
		})
	}
}

func TestGenerator_CompactFailureFallsToLocal(t *testing.T) {
	client := &scriptedClient{responses: []scripted{
		{err: &textgen.Error{Kind: textgen.KindTokenLimitExceeded}},
		{err: &textgen.Error{Kind: textgen.KindTokenLimitExceeded}},
	}}
	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: client, Logger: zerolog.Nop()})
	rt := buildRoute(t, "KSFO", "KLAX")

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KLAX"), rt)

	assert.Equal(t, briefing.TierLocal, s.Tier)
	assert.Equal(t, textgen.KindTokenLimitExceeded, s.Cause)
	assert.Equal(t, int32(2), client.calls.Load())
}

func TestGenerator_EmptyTextIsAResult(t *testing.T) {
	client := &scriptedClient{responses: []scripted{{text: ""}}}
	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: client, Logger: zerolog.Nop()})

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KLAX"), buildRoute(t, "KSFO", "KLAX"))
	assert.Equal(t, briefing.TierDetailed, s.Tier)
	assert.Empty(t, s.Text)
}

func TestGenerator_Flags(t *testing.T) {
	rt := buildRoute(t, "KSFO", "KLAX")
	obs := observationsFor("KSFO", "KLAX")

	t.Run("disable_ai_summary", func(t *testing.T) {
		client := &scriptedClient{responses: []scripted{{text: "unused"}}}
		gen := briefing.NewGenerator(briefing.GeneratorConfig{
			Client: client,
			Flags:  staticFlags{briefing.FlagDisableAISummary: true},
			Logger: zerolog.Nop(),
		})

		s := gen.Generate(context.Background(), obs, rt)
		assert.Equal(t, briefing.TierLocal, s.Tier)
		assert.Equal(t, briefing.AnnotationDegraded, s.Annotation)
		assert.Equal(t, int32(0), client.calls.Load())
	})

	t.Run("compact_only", func(t *testing.T) {
		client := &scriptedClient{responses: []scripted{{text: "compact"}}}
		gen := briefing.NewGenerator(briefing.GeneratorConfig{
			Client: client,
			Flags:  staticFlags{briefing.FlagCompactOnly: true},
			Logger: zerolog.Nop(),
		})

		s := gen.Generate(context.Background(), obs, rt)
		assert.Equal(t, briefing.TierCompact, s.Tier)
		require.Len(t, client.requests, 1)
		assert.Equal(t, briefing.CompactMaxOutputTokens, client.requests[0].MaxOutputTokens)
	})
}

func TestGenerator_LocalSummaryWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	// No API key: both model tiers are unreachable.
	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: newTextgenClient(server.URL, ""), Logger: zerolog.Nop()})
	rt := buildRoute(t, "KSFO", "KSJC", "KLAX")

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KSJC", "KLAX"), rt)

	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, briefing.TierLocal, s.Tier)
	assert.Equal(t, textgen.KindConfigurationMissing, s.Cause)

	text := s.Text
	assert.True(t, strings.HasPrefix(text, "FLIGHT PATH ANALYSIS: KSFO → KLAX"))
	for _, section := range []string{"ROUTE OVERVIEW:", "AIRPORTS WITH CURRENT WEATHER:", "WEATHER DATA UNAVAILABLE:", "PILOT NOTES:"} {
		assert.Contains(t, text, section)
	}
	assert.Contains(t, text, "• Total airports analyzed: 3\n")
	assert.Contains(t, text, "• Weather reports available: 3\n")
	assert.Contains(t, text, "• Reports unavailable: 0\n")
	assert.Contains(t, text, "WEATHER DATA UNAVAILABLE: none")
	assert.Contains(t, text, "• KSFO: Wind 280° at 15 knots gusting 25, Visibility 10SM, Temp 18°C")
	assert.Contains(t, text, "• KSJC: ")
	assert.Contains(t, text, "• KLAX: ")
	assert.Contains(t, text, briefing.NoteDegraded)
}

func TestGenerator_BothModelTiersFail(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model"},"finishReason":"MAX_TOKENS"}]}`))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"The model is overloaded","status":"UNAVAILABLE"}}`))
	}))
	defer server.Close()

	gen := briefing.NewGenerator(briefing.GeneratorConfig{Client: newTextgenClient(server.URL, "key"), Logger: zerolog.Nop()})
	rt := buildRoute(t, "KSFO", "KSJC", "KLAX")

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KSJC", "KLAX"), rt)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, briefing.TierLocal, s.Tier)
	assert.Equal(t, briefing.AnnotationDegraded, s.Annotation)
	assert.Equal(t, textgen.KindUnavailable, s.Cause)

	text := s.Text
	assert.True(t, strings.HasPrefix(text, "FLIGHT PATH ANALYSIS: KSFO → KLAX"))
	assert.Contains(t, text, "• Total airports analyzed: 3\n")
	assert.Contains(t, text, "• Weather reports available: 3\n")
	assert.Contains(t, text, "• Reports unavailable: 0\n")
	assert.Contains(t, text, "WEATHER DATA UNAVAILABLE: none")
	assert.Contains(t, text, briefing.NoteDegraded)
}

func TestGenerator_NilClient(t *testing.T) {
	gen := briefing.NewGenerator(briefing.GeneratorConfig{Logger: zerolog.Nop()})

	s := gen.Generate(context.Background(), observationsFor("KSFO", "KLAX"), buildRoute(t, "KSFO", "KLAX"))
	assert.Equal(t, briefing.TierLocal, s.Tier)
	assert.Equal(t, textgen.KindConfigurationMissing, s.Cause)
}
