package metar

import (
	"fmt"
	"strings"
)

// FlightCategory is the FAA flight rules category.
type FlightCategory string

const (
	CategoryVFR     FlightCategory = "VFR"
	CategoryMVFR    FlightCategory = "MVFR"
	CategoryIFR     FlightCategory = "IFR"
	CategoryLIFR    FlightCategory = "LIFR"
	CategoryUnknown FlightCategory = "UNKNOWN"
)

var coverNames = map[string]string{
	"FEW": "Few clouds",
	"SCT": "Scattered clouds",
	"BKN": "Broken clouds",
	"OVC": "Overcast clouds",
	"VV":  "Vertical visibility",
}

var intensityNames = map[string]string{
	"-":  "Light",
	"+":  "Heavy",
	"VC": "In the vicinity",
}

var descriptorNames = map[string]string{
	"MI": "Shallow",
	"PR": "Partial",
	"BC": "Patches",
	"DR": "Low drifting",
	"BL": "Blowing",
	"SH": "Showers",
	"TS": "Thunderstorm",
	"FZ": "Freezing",
}

var phenomenonNames = map[string]string{
	"DZ": "Drizzle",
	"RA": "Rain",
	"SN": "Snow",
	"SG": "Snow grains",
	"IC": "Ice crystals",
	"PL": "Ice pellets",
	"GR": "Hail",
	"GS": "Small hail",
	"UP": "Unknown precipitation",
	"BR": "Mist",
	"FG": "Fog",
	"FU": "Smoke",
	"VA": "Volcanic ash",
	"DU": "Dust",
	"SA": "Sand",
	"HZ": "Haze",
	"PY": "Spray",
	"PO": "Dust whirls",
	"SQ": "Squalls",
	"FC": "Funnel cloud",
	"SS": "Sandstorm",
	"DS": "Duststorm",
}

// Category derives the flight category from ceiling and visibility.
func (r *Report) Category() FlightCategory {
	ceiling, hasCeiling := r.Ceiling()
	if r.Visibility == nil && !hasCeiling && !r.SkyClear && len(r.Clouds) == 0 {
		return CategoryUnknown
	}

	vis := 10.0
	if r.Visibility != nil {
		vis = r.Visibility.StatuteMi
	}
	if !hasCeiling {
		ceiling = 100000
	}

	switch {
	case ceiling < 500 || vis < 1:
		return CategoryLIFR
	case ceiling < 1000 || vis < 3:
		return CategoryIFR
	case ceiling <= 3000 || vis <= 5:
		return CategoryMVFR
	default:
		return CategoryVFR
	}
}

// WindText renders the wind group, or "" when absent.
func (r *Report) WindText() string {
	w := r.Wind
	if w == nil {
		return ""
	}
	if w.Calm() {
		return "Wind calm"
	}

	var b strings.Builder
	if w.Variable {
		fmt.Fprintf(&b, "Wind variable at %d knots", w.SpeedKT)
	} else {
		fmt.Fprintf(&b, "Wind from %03d° at %d knots", w.DirectionDeg, w.SpeedKT)
	}
	if w.GustKT > 0 {
		fmt.Fprintf(&b, ", gusting to %d knots", w.GustKT)
	}
	return b.String()
}

// VisibilityText renders the visibility, or "" when absent.
func (r *Report) VisibilityText() string {
	v := r.Visibility
	if v == nil {
		return ""
	}
	if v.Raw == "CAVOK" {
		return "Ceiling and visibility OK"
	}
	if strings.HasSuffix(v.Raw, "SM") {
		text := strings.TrimSuffix(v.Raw, "SM")
		switch {
		case v.LessThan:
			text = "Less than " + strings.TrimPrefix(text, "M")
		case v.GreaterThan:
			text = "More than " + strings.TrimPrefix(text, "P")
		}
		return text + " statute miles"
	}
	if v.GreaterThan {
		return "10 km or more"
	}
	return fmt.Sprintf("%s metres (%.1f statute miles)", v.Raw, v.StatuteMi)
}

// CloudText renders the sky condition, or "" when absent.
func (r *Report) CloudText() string {
	if len(r.Clouds) == 0 {
		if r.SkyClear {
			return "Clear skies"
		}
		return ""
	}

	parts := make([]string, 0, len(r.Clouds))
	for _, c := range r.Clouds {
		height := "unknown height"
		if c.HeightFt >= 0 {
			height = fmt.Sprintf("%d feet", c.HeightFt)
		}
		desc := fmt.Sprintf("%s at %s", coverNames[c.Cover], height)
		switch c.Type {
		case "CB":
			desc += " (cumulonimbus)"
		case "TCU":
			desc += " (towering cumulus)"
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, ", ")
}

// WeatherText renders present weather, or "" when none is reported.
func (r *Report) WeatherText() string {
	if len(r.Weather) == 0 {
		return ""
	}

	descs := make([]string, 0, len(r.Weather))
	for _, w := range r.Weather {
		var parts []string
		if name, ok := intensityNames[w.Intensity]; ok {
			parts = append(parts, name)
		}
		if name, ok := descriptorNames[w.Descriptor]; ok {
			parts = append(parts, name)
		}
		for _, code := range w.Codes {
			parts = append(parts, strings.ToLower(phenomenonNames[code]))
		}
		descs = append(descs, strings.Join(parts, " "))
	}
	return strings.Join(descs, ", ")
}

// TemperatureText renders temperature and dew point, or "" when absent.
func (r *Report) TemperatureText() string {
	if r.TempC == nil {
		return ""
	}
	if r.DewPointC == nil {
		return fmt.Sprintf("Temperature: %d°C", *r.TempC)
	}
	return fmt.Sprintf("Temperature: %d°C, Dew Point: %d°C", *r.TempC, *r.DewPointC)
}

// PressureText renders the altimeter setting, or "" when absent.
func (r *Report) PressureText() string {
	switch {
	case r.AltimeterInHg != nil:
		return fmt.Sprintf("Altimeter: %.2f inHg", *r.AltimeterInHg)
	case r.QNHhPa != nil:
		return fmt.Sprintf("QNH: %d hPa", *r.QNHhPa)
	default:
		return ""
	}
}

// PlainText renders the report as a multi-line plain-language summary.
func (r *Report) PlainText() string {
	var lines []string

	header := "Weather report"
	if r.Station != "" {
		header += " for " + r.Station
	}
	if r.Day > 0 {
		header += fmt.Sprintf(" on day %d at %02d:%02d UTC", r.Day, r.Hour, r.Minute)
	}
	lines = append(lines, header+":")

	lines = append(lines,
		orDefault(r.WindText(), "Wind data not available"),
		"Visibility: "+orDefault(r.VisibilityText(), "not available"),
		"Clouds: "+orDefault(r.CloudText(), "not reported"),
	)
	if w := r.WeatherText(); w != "" {
		lines = append(lines, "Weather: "+w)
	}
	lines = append(lines,
		orDefault(r.TemperatureText(), "Temperature and dew point data not available"),
		orDefault(r.PressureText(), "Pressure data not available"),
		"Flight category: "+string(r.Category()),
	)

	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Decode parses raw and returns its plain-language rendering.
// Input that cannot be parsed is returned trimmed and unchanged.
func Decode(raw string) string {
	r, err := Parse(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return r.PlainText()
}

// Salient holds the short fields used in compact prompts and local summaries.
type Salient struct {
	Wind        string // e.g. "Wind 280° at 15 knots"
	Visibility  string // e.g. "Visibility 10SM"
	Temperature string // e.g. "Temp 18°C"
}

// String joins the non-empty fields with ", ".
func (s Salient) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Wind, s.Visibility, s.Temperature} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Empty reports whether no field was extracted.
func (s Salient) Empty() bool {
	return s.Wind == "" && s.Visibility == "" && s.Temperature == ""
}

// Extract pulls wind, visibility and temperature out of a raw report.
func Extract(raw string) Salient {
	r, err := Parse(raw)
	if err != nil {
		return Salient{}
	}

	var s Salient
	if w := r.Wind; w != nil {
		switch {
		case w.Calm():
			s.Wind = "Wind calm"
		case w.Variable:
			s.Wind = fmt.Sprintf("Wind variable at %d knots", w.SpeedKT)
		default:
			s.Wind = fmt.Sprintf("Wind %03d° at %d knots", w.DirectionDeg, w.SpeedKT)
		}
		if w.GustKT > 0 {
			s.Wind += fmt.Sprintf(" gusting %d", w.GustKT)
		}
	}
	if v := r.Visibility; v != nil {
		s.Visibility = "Visibility " + v.Raw
	}
	if r.TempC != nil {
		s.Temperature = fmt.Sprintf("Temp %d°C", *r.TempC)
	}
	return s
}
