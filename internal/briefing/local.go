package briefing

import (
	"fmt"
	"strings"

	"github.com/AmeyaMprojects/pilot-brief/internal/route"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather/metar"
)

// Trailing notes of the local summary.
const (
	NoteTransient = "Note: AI analysis temporarily unavailable due to API quota limits. " +
		"Please wait a moment and try again for enhanced insights."
	NoteDegraded = "Note: This is a basic analysis. AI-powered insights are temporarily unavailable."
)

var pilotNotes = []string{
	"Review individual weather reports for detailed conditions",
	"Check NOTAMs and current conditions before departure",
	"Consider alternate airports for unavailable weather data",
	"Monitor weather updates throughout flight planning",
}

// LocalSummary builds the rule-based summary from the observations in hand.
// It needs no network access and works with zero available observations.
func LocalSummary(obs weather.Observations, rt *route.Route, annotation Annotation) string {
	order := analysisOrder(obs, rt)
	available, unavailable := obs.Split(order)

	var b strings.Builder

	fmt.Fprintf(&b, "FLIGHT PATH ANALYSIS: %s → %s\n\n", rt.Departure().Code, rt.Destination().Code)

	b.WriteString("ROUTE OVERVIEW:\n")
	fmt.Fprintf(&b, "• Total airports analyzed: %d\n", len(order))
	fmt.Fprintf(&b, "• Weather reports available: %d\n", len(available))
	fmt.Fprintf(&b, "• Reports unavailable: %d\n", len(unavailable))
	fmt.Fprintf(&b, "• Route distance: %.0f NM (about %s at %.0f knots)\n\n",
		rt.TotalDistanceNM(), rt.EstimatedDuration(), rt.CruiseSpeedKT())

	b.WriteString("AIRPORTS WITH CURRENT WEATHER:\n")
	if len(available) == 0 {
		b.WriteString("• None\n")
	}
	for _, code := range available {
		fmt.Fprintf(&b, "• %s: %s\n", code, airportLine(obs[code]))
	}
	b.WriteString("\n")

	b.WriteString("WEATHER DATA UNAVAILABLE: ")
	if len(unavailable) == 0 {
		b.WriteString("none")
	} else {
		b.WriteString(strings.Join(unavailable, ", "))
	}
	b.WriteString("\n\n")

	b.WriteString("PILOT NOTES:\n")
	for _, note := range pilotNotes {
		fmt.Fprintf(&b, "• %s\n", note)
	}
	b.WriteString("\n")

	if annotation == AnnotationTransient {
		b.WriteString(NoteTransient)
	} else {
		b.WriteString(NoteDegraded)
	}
	return b.String()
}

func airportLine(rec weather.ObservationRecord) string {
	s := metar.Extract(rec.RawText)
	if s.Empty() {
		return "Report available, see full text"
	}

	line := s.String()
	if r, err := metar.Parse(rec.RawText); err == nil {
		if cat := r.Category(); cat != metar.CategoryUnknown {
			line += fmt.Sprintf(" (%s)", cat)
		}
	}
	return line
}
