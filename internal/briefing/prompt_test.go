package briefing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AmeyaMprojects/pilot-brief/internal/briefing"
)

func TestDetailedPrompt(t *testing.T) {
	rt := buildRoute(t, "KSFO", "KSJC", "KLAX")
	obs := observationsFor("KSFO", "KLAX", "KXYZ")

	prompt := briefing.DetailedPrompt(obs, rt)

	assert.Contains(t, prompt, "Flight Route: KSFO → KLAX")
	assert.Contains(t, prompt, "Airports along the path: KSFO → KSJC → KLAX → KXYZ")
	assert.Contains(t, prompt, "KSFO: "+testReports["KSFO"])
	assert.Contains(t, prompt, "KSJC: Weather data unavailable")
	assert.Contains(t, prompt, "KXYZ: Weather data unavailable")
	assert.Contains(t, prompt, "5. Recommendations for the pilot")
}

func TestDetailedPrompt_PrefersParsedText(t *testing.T) {
	rt := buildRoute(t, "KSFO", "KLAX")
	obs := observationsFor("KSFO", "KLAX")
	rec := obs["KSFO"]
	rec.ParsedText = "Weather report for KSFO, decoded"
	obs["KSFO"] = rec

	prompt := briefing.DetailedPrompt(obs, rt)
	assert.Contains(t, prompt, "KSFO: Weather report for KSFO, decoded")
	assert.NotContains(t, prompt, testReports["KSFO"])
}

func TestCompactPrompt(t *testing.T) {
	rt := buildRoute(t, "KSFO", "KSJC", "KFAT", "KBUR", "KLAX")
	obs := observationsFor("KSFO", "KSJC", "KFAT", "KBUR", "KLAX")

	prompt := briefing.CompactPrompt(obs, rt)

	assert.Contains(t, prompt, "KSFO (departure): Wind 280° at 15 knots gusting 25, Visibility 10SM, Temp 18°C")
	assert.Contains(t, prompt, "KFAT (waypoint): Wind 320° at 12 knots, Visibility 10SM, Temp 28°C")
	assert.Contains(t, prompt, "KLAX (destination): ")
	assert.NotContains(t, prompt, "KSJC")
	assert.NotContains(t, prompt, "KBUR")
	assert.NotContains(t, prompt, "A3002", "raw reports must not be embedded")
	assert.Contains(t, prompt, "exactly 5 lines")
}

func TestCompactPrompt_TwoPointRoute(t *testing.T) {
	rt := buildRoute(t, "KSFO", "KLAX")
	obs := observationsFor("KSFO")

	prompt := briefing.CompactPrompt(obs, rt)

	assert.Contains(t, prompt, "KLAX (destination): no report")
	assert.NotContains(t, prompt, "(waypoint)")
}

func TestLocalSummary_ZeroObservations(t *testing.T) {
	rt := buildRoute(t, "KSFO", "KSJC", "KLAX")

	text := briefing.LocalSummary(observationsFor(), rt, briefing.AnnotationTransient)

	assert.Contains(t, text, "• Total airports analyzed: 3\n")
	assert.Contains(t, text, "• Weather reports available: 0\n")
	assert.Contains(t, text, "• Reports unavailable: 3\n")
	assert.Contains(t, text, "AIRPORTS WITH CURRENT WEATHER:\n• None")
	assert.Contains(t, text, "WEATHER DATA UNAVAILABLE: KSFO, KSJC, KLAX")
	assert.True(t, strings.HasSuffix(text, briefing.NoteTransient))
}

func TestLocalSummary_IncludesCorridorAirports(t *testing.T) {
	rt := buildRoute(t, "KSFO", "KLAX")

	text := briefing.LocalSummary(observationsFor("KSFO", "KLAX", "KSBA", "KXYZ"), rt, briefing.AnnotationDegraded)

	assert.Contains(t, text, "• Total airports analyzed: 4\n")
	assert.Contains(t, text, "• Weather reports available: 3\n")
	assert.Contains(t, text, "• KSBA: Wind 240° at 6 knots, Visibility 3SM, Temp 15°C (IFR)")
	assert.Contains(t, text, "WEATHER DATA UNAVAILABLE: KXYZ")
	assert.True(t, strings.HasSuffix(text, briefing.NoteDegraded))
}
