package briefing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AmeyaMprojects/pilot-brief/internal/route"
	"github.com/AmeyaMprojects/pilot-brief/internal/textgen"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather/metar"
)

// Generation parameters per tier.
const (
	DetailedMaxOutputTokens = 1024
	DetailedTemperature     = 0.7
	CompactMaxOutputTokens  = 256
	CompactTemperature      = 0.3
)

const unavailableText = "Weather data unavailable"

// analysisOrder lists the route path, corridor airports within their legs,
// then any other observed codes sorted.
func analysisOrder(obs weather.Observations, rt *route.Route) []string {
	codes := rt.Path()
	listed := make(map[string]bool, len(codes))
	for _, c := range codes {
		listed[c] = true
	}

	var extra []string
	for code := range obs {
		if !listed[code] {
			extra = append(extra, code)
		}
	}
	sort.Strings(extra)

	return append(codes, extra...)
}

// DetailedPrompt embeds every airport's report text.
func DetailedPrompt(obs weather.Observations, rt *route.Route) string {
	order := analysisOrder(obs, rt)

	reports := make([]string, len(order))
	for i, code := range order {
		text := unavailableText
		if rec, ok := obs[code]; ok && rec.Available() {
			text = rec.Text()
		}
		reports[i] = code + ": " + text
	}

	var b strings.Builder
	b.WriteString("You are an aviation weather expert. Analyze the following weather data for a flight path ")
	b.WriteString("and provide a concise summary highlighting key weather conditions along the route.\n\n")
	fmt.Fprintf(&b, "Flight Route: %s → %s\n", rt.Departure().Code, rt.Destination().Code)
	fmt.Fprintf(&b, "Airports along the path: %s\n", strings.Join(order, " → "))
	fmt.Fprintf(&b, "Route distance: %.0f NM, estimated %s at %.0f knots\n\n",
		rt.TotalDistanceNM(), rt.EstimatedDuration(), rt.CruiseSpeedKT())
	b.WriteString("Weather Data:\n")
	b.WriteString(strings.Join(reports, "\n\n"))
	b.WriteString("\n\nPlease provide:\n")
	b.WriteString("1. Overall flight conditions summary\n")
	b.WriteString("2. Key weather concerns or favorable conditions\n")
	b.WriteString("3. Visibility and wind conditions along the route\n")
	b.WriteString("4. Any weather patterns that might affect the flight\n")
	b.WriteString("5. Recommendations for the pilot\n\n")
	b.WriteString("Keep the summary concise but informative, focusing on practical aviation insights.\n")
	return b.String()
}

// DetailedRequest builds the tier 1 request.
func DetailedRequest(obs weather.Observations, rt *route.Route) textgen.Request {
	return textgen.Request{
		Prompt:          DetailedPrompt(obs, rt),
		MaxOutputTokens: DetailedMaxOutputTokens,
		Temperature:     DetailedTemperature,
	}
}

// compactPoints returns departure, the middle waypoint if any, and destination.
func compactPoints(rt *route.Route) []route.Point {
	points := []route.Point{rt.Departure()}
	if wps := rt.Waypoints(); len(wps) > 0 {
		points = append(points, wps[len(wps)/2])
	}
	return append(points, rt.Destination())
}

// CompactPrompt reduces each selected airport to wind, visibility and
// temperature and asks for exactly five lines.
func CompactPrompt(obs weather.Observations, rt *route.Route) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Aviation weather brief for %s → %s.\n", rt.Departure().Code, rt.Destination().Code)

	for _, p := range compactPoints(rt) {
		fields := "no report"
		if rec, ok := obs[p.Code]; ok && rec.Available() {
			if s := metar.Extract(rec.RawText); !s.Empty() {
				fields = s.String()
			} else {
				fields = "report available, fields not decoded"
			}
		}
		fmt.Fprintf(&b, "%s (%s): %s\n", p.Code, p.Role, fields)
	}

	b.WriteString("\nReply with exactly 5 lines and nothing else:\n")
	b.WriteString("1. Overall conditions\n")
	b.WriteString("2. Departure\n")
	b.WriteString("3. En route\n")
	b.WriteString("4. Destination\n")
	b.WriteString("5. Recommendation\n")
	return b.String()
}

// CompactRequest builds the tier 2 request.
func CompactRequest(obs weather.Observations, rt *route.Route) textgen.Request {
	return textgen.Request{
		Prompt:          CompactPrompt(obs, rt),
		MaxOutputTokens: CompactMaxOutputTokens,
		Temperature:     CompactTemperature,
	}
}
