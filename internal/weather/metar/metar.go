// Package metar extracts fields from raw METAR reports and renders them as
// plain language.
package metar

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrEmptyReport is returned by Parse for blank input.
var ErrEmptyReport = errors.New("empty METAR report")

var (
	stationRe    = regexp.MustCompile(`^[A-Z][A-Z0-9]{3}$`)
	timeRe       = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z$`)
	windRe       = regexp.MustCompile(`^(\d{3}|VRB)(\d{2,3})(?:G(\d{2,3}))?(KT|MPS)$`)
	windVarRe    = regexp.MustCompile(`^\d{3}V\d{3}$`)
	visSMRe      = regexp.MustCompile(`^(M|P)?(\d+)SM$`)
	visFracRe    = regexp.MustCompile(`^(M)?(\d+)/(\d+)SM$`)
	visWholeRe   = regexp.MustCompile(`^\d$`)
	visMetresRe  = regexp.MustCompile(`^(\d{4})(NDV)?$`)
	cloudRe      = regexp.MustCompile(`^(FEW|SCT|BKN|OVC|VV)(\d{3}|///)(CB|TCU)?$`)
	clearRe      = regexp.MustCompile(`^(CLR|SKC|NSC|NCD)$`)
	tempRe       = regexp.MustCompile(`^(M?\d{2})/(M?\d{2})?$`)
	altimeterRe  = regexp.MustCompile(`^A(\d{4})$`)
	qnhRe        = regexp.MustCompile(`^Q(\d{4})$`)
	phenomenaRe  = regexp.MustCompile(`^(-|\+|VC)?(MI|PR|BC|DR|BL|SH|TS|FZ)?((?:DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS)*)$`)
	phenomenonRe = regexp.MustCompile(`DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS`)
)

// Wind is the reported surface wind.
type Wind struct {
	DirectionDeg int
	Variable     bool
	SpeedKT      int
	GustKT       int
}

// Calm reports a 00000KT wind.
func (w Wind) Calm() bool {
	return w.SpeedKT == 0 && w.GustKT == 0
}

// Visibility is the prevailing visibility.
type Visibility struct {
	Raw         string  // as reported, e.g. "10SM", "1 1/2SM", "9999"
	StatuteMi   float64 // converted for metre reports
	LessThan    bool
	GreaterThan bool
}

// CloudLayer is a single sky-condition group.
type CloudLayer struct {
	Cover    string // FEW, SCT, BKN, OVC, VV
	HeightFt int    // -1 when not reported
	Type     string // CB or TCU
}

// Ceiling reports whether the layer forms a ceiling.
func (c CloudLayer) Ceiling() bool {
	return c.Cover == "BKN" || c.Cover == "OVC" || c.Cover == "VV"
}

// Phenomenon is a present-weather group.
type Phenomenon struct {
	Intensity  string // "-", "+", "VC" or empty
	Descriptor string
	Codes      []string
}

// Report holds the fields extracted from a METAR.
type Report struct {
	Raw           string
	Station       string
	Day           int
	Hour          int
	Minute        int
	Wind          *Wind
	Visibility    *Visibility
	Clouds        []CloudLayer
	SkyClear      bool
	Weather       []Phenomenon
	TempC         *int
	DewPointC     *int
	AltimeterInHg *float64
	QNHhPa        *int
}

// Parse extracts what it can from a raw METAR. Unrecognized groups are
// ignored; only blank input is an error.
func Parse(raw string) (*Report, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyReport
	}

	r := &Report{Raw: raw}
	tokens := strings.Fields(raw)

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if tok == "RMK" {
			break
		}

		switch {
		case tok == "METAR" || tok == "SPECI" || tok == "AUTO" || tok == "COR":
			continue
		case r.Station == "" && stationRe.MatchString(tok):
			r.Station = tok
		case r.Day == 0 && timeRe.MatchString(tok):
			m := timeRe.FindStringSubmatch(tok)
			r.Day, _ = strconv.Atoi(m[1])
			r.Hour, _ = strconv.Atoi(m[2])
			r.Minute, _ = strconv.Atoi(m[3])
		case r.Wind == nil && windRe.MatchString(tok):
			r.Wind = parseWind(tok)
		case windVarRe.MatchString(tok):
			continue
		case tok == "CAVOK":
			r.Visibility = &Visibility{Raw: "CAVOK", StatuteMi: 10, GreaterThan: true}
			r.SkyClear = true
		case r.Visibility == nil && visWholeRe.MatchString(tok) && i+1 < len(tokens) && visFracRe.MatchString(tokens[i+1]):
			r.Visibility = parseMixedVisibility(tok, tokens[i+1])
			i++
		case r.Visibility == nil && visFracRe.MatchString(tok):
			r.Visibility = parseFractionVisibility(tok)
		case r.Visibility == nil && visSMRe.MatchString(tok):
			r.Visibility = parseSMVisibility(tok)
		case r.Visibility == nil && r.Wind != nil && visMetresRe.MatchString(tok):
			r.Visibility = parseMetreVisibility(tok)
		case cloudRe.MatchString(tok):
			r.Clouds = append(r.Clouds, parseCloud(tok))
		case clearRe.MatchString(tok):
			r.SkyClear = true
		case r.TempC == nil && tempRe.MatchString(tok):
			m := tempRe.FindStringSubmatch(tok)
			t := parseSigned(m[1])
			r.TempC = &t
			if m[2] != "" {
				d := parseSigned(m[2])
				r.DewPointC = &d
			}
		case altimeterRe.MatchString(tok):
			v, _ := strconv.Atoi(tok[1:])
			inHg := float64(v) / 100
			r.AltimeterInHg = &inHg
		case qnhRe.MatchString(tok):
			v, _ := strconv.Atoi(tok[1:])
			r.QNHhPa = &v
		case r.Station != "" && isPhenomenon(tok):
			r.Weather = append(r.Weather, parsePhenomenon(tok))
		}
	}

	return r, nil
}

func parseWind(tok string) *Wind {
	m := windRe.FindStringSubmatch(tok)
	w := &Wind{}
	if m[1] == "VRB" {
		w.Variable = true
	} else {
		w.DirectionDeg, _ = strconv.Atoi(m[1])
	}
	w.SpeedKT, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		w.GustKT, _ = strconv.Atoi(m[3])
	}
	if m[4] == "MPS" {
		w.SpeedKT = mpsToKT(w.SpeedKT)
		w.GustKT = mpsToKT(w.GustKT)
	}
	return w
}

func mpsToKT(v int) int {
	return int(float64(v)*1.94384 + 0.5)
}

func parseSMVisibility(tok string) *Visibility {
	m := visSMRe.FindStringSubmatch(tok)
	n, _ := strconv.Atoi(m[2])
	return &Visibility{
		Raw:         tok,
		StatuteMi:   float64(n),
		LessThan:    m[1] == "M",
		GreaterThan: m[1] == "P",
	}
}

func parseFractionVisibility(tok string) *Visibility {
	m := visFracRe.FindStringSubmatch(tok)
	num, _ := strconv.Atoi(m[2])
	den, _ := strconv.Atoi(m[3])
	v := &Visibility{Raw: tok, LessThan: m[1] == "M"}
	if den > 0 {
		v.StatuteMi = float64(num) / float64(den)
	}
	return v
}

func parseMixedVisibility(whole, frac string) *Visibility {
	w, _ := strconv.Atoi(whole)
	v := parseFractionVisibility(frac)
	v.StatuteMi += float64(w)
	v.Raw = whole + " " + frac
	return v
}

func parseMetreVisibility(tok string) *Visibility {
	m := visMetresRe.FindStringSubmatch(tok)
	metres, _ := strconv.Atoi(m[1])
	v := &Visibility{Raw: tok, StatuteMi: float64(metres) / 1609.344}
	if metres == 9999 {
		v.GreaterThan = true
	}
	return v
}

func parseCloud(tok string) CloudLayer {
	m := cloudRe.FindStringSubmatch(tok)
	layer := CloudLayer{Cover: m[1], HeightFt: -1, Type: m[3]}
	if h, err := strconv.Atoi(m[2]); err == nil {
		layer.HeightFt = h * 100
	}
	return layer
}

func parseSigned(s string) int {
	neg := strings.HasPrefix(s, "M")
	v, _ := strconv.Atoi(strings.TrimPrefix(s, "M"))
	if neg {
		return -v
	}
	return v
}

func isPhenomenon(tok string) bool {
	m := phenomenaRe.FindStringSubmatch(tok)
	if m == nil {
		return false
	}
	// A bare intensity or descriptor other than TS is not weather.
	return m[3] != "" || m[2] == "TS"
}

func parsePhenomenon(tok string) Phenomenon {
	m := phenomenaRe.FindStringSubmatch(tok)
	return Phenomenon{
		Intensity:  m[1],
		Descriptor: m[2],
		Codes:      phenomenonRe.FindAllString(m[3], -1),
	}
}

// Ceiling returns the lowest broken, overcast or obscured layer height.
func (r *Report) Ceiling() (int, bool) {
	lowest := -1
	for _, c := range r.Clouds {
		if !c.Ceiling() || c.HeightFt < 0 {
			continue
		}
		if lowest < 0 || c.HeightFt < lowest {
			lowest = c.HeightFt
		}
	}
	return lowest, lowest >= 0
}
