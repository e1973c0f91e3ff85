package metar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmeyaMprojects/pilot-brief/internal/weather/metar"
)

const ksfo = "METAR KSFO 121756Z 28015G25KT 10SM FEW008 BKN250 18/12 A3002 RMK AO2 SLP166"

func TestParse_FullReport(t *testing.T) {
	r, err := metar.Parse(ksfo)
	require.NoError(t, err)

	assert.Equal(t, "KSFO", r.Station)
	assert.Equal(t, 12, r.Day)
	assert.Equal(t, 17, r.Hour)
	assert.Equal(t, 56, r.Minute)

	require.NotNil(t, r.Wind)
	assert.Equal(t, 280, r.Wind.DirectionDeg)
	assert.Equal(t, 15, r.Wind.SpeedKT)
	assert.Equal(t, 25, r.Wind.GustKT)

	require.NotNil(t, r.Visibility)
	assert.Equal(t, 10.0, r.Visibility.StatuteMi)

	require.Len(t, r.Clouds, 2)
	assert.Equal(t, metar.CloudLayer{Cover: "FEW", HeightFt: 800}, r.Clouds[0])
	assert.Equal(t, 25000, r.Clouds[1].HeightFt)

	require.NotNil(t, r.TempC)
	require.NotNil(t, r.DewPointC)
	assert.Equal(t, 18, *r.TempC)
	assert.Equal(t, 12, *r.DewPointC)

	require.NotNil(t, r.AltimeterInHg)
	assert.InDelta(t, 30.02, *r.AltimeterInHg, 1e-9)

	assert.Equal(t, metar.CategoryVFR, r.Category())
}

func TestParse_NegativeTemperatureAndFractionVisibility(t *testing.T) {
	r, err := metar.Parse("KBIS 021553Z VRB04KT 1 1/2SM -SN BR OVC007 M12/M14 A2995")
	require.NoError(t, err)

	assert.True(t, r.Wind.Variable)
	assert.Equal(t, 4, r.Wind.SpeedKT)
	assert.InDelta(t, 1.5, r.Visibility.StatuteMi, 1e-9)
	assert.Equal(t, "1 1/2SM", r.Visibility.Raw)
	assert.Equal(t, -12, *r.TempC)
	assert.Equal(t, -14, *r.DewPointC)

	require.Len(t, r.Weather, 2)
	assert.Equal(t, "-", r.Weather[0].Intensity)
	assert.Equal(t, []string{"SN"}, r.Weather[0].Codes)
	assert.Equal(t, []string{"BR"}, r.Weather[1].Codes)

	ceiling, ok := r.Ceiling()
	assert.True(t, ok)
	assert.Equal(t, 700, ceiling)
	assert.Equal(t, metar.CategoryIFR, r.Category())
}

func TestParse_MetricReport(t *testing.T) {
	r, err := metar.Parse("EGLL 121750Z 24008MPS 9999 SCT030 15/09 Q1013")
	require.NoError(t, err)

	assert.Equal(t, 16, r.Wind.SpeedKT)
	assert.True(t, r.Visibility.GreaterThan)
	require.NotNil(t, r.QNHhPa)
	assert.Equal(t, 1013, *r.QNHhPa)
	assert.Nil(t, r.AltimeterInHg)
	assert.Equal(t, metar.CategoryVFR, r.Category())
}

func TestParse_IgnoresRemarks(t *testing.T) {
	r, err := metar.Parse("KLAX 121753Z 25010KT 10SM CLR 20/10 A2998 RMK FEW050 T02000100")
	require.NoError(t, err)

	assert.Empty(t, r.Clouds)
	assert.True(t, r.SkyClear)
}

func TestParse_Empty(t *testing.T) {
	_, err := metar.Parse("   ")
	assert.ErrorIs(t, err, metar.ErrEmptyReport)
}

func TestCategory(t *testing.T) {
	tests := []struct {
		raw      string
		expected metar.FlightCategory
	}{
		{"KAAA 010000Z 00000KT 10SM SKC 20/10 A3000", metar.CategoryVFR},
		{"KAAA 010000Z 00000KT 5SM BKN040 20/10 A3000", metar.CategoryMVFR},
		{"KAAA 010000Z 00000KT 10SM OVC025 20/10 A3000", metar.CategoryMVFR},
		{"KAAA 010000Z 00000KT 2SM BR OVC040 20/10 A3000", metar.CategoryIFR},
		{"KAAA 010000Z 00000KT 1/4SM FG VV002 20/20 A3000", metar.CategoryLIFR},
		{"KAAA 010000Z 00000KT", metar.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r, err := metar.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r.Category())
		})
	}
}

func TestDecode(t *testing.T) {
	text := metar.Decode(ksfo)

	assert.Contains(t, text, "Weather report for KSFO on day 12 at 17:56 UTC:")
	assert.Contains(t, text, "Wind from 280° at 15 knots, gusting to 25 knots")
	assert.Contains(t, text, "Visibility: 10 statute miles")
	assert.Contains(t, text, "Clouds: Few clouds at 800 feet, Broken clouds at 25000 feet")
	assert.Contains(t, text, "Temperature: 18°C, Dew Point: 12°C")
	assert.Contains(t, text, "Altimeter: 30.02 inHg")
	assert.Contains(t, text, "Flight category: VFR")
}

func TestDecode_WeatherAndCalm(t *testing.T) {
	text := metar.Decode("KJFK 121751Z 00000KT 3SM +TSRA BKN015CB 22/21 A2990")

	assert.Contains(t, text, "Wind calm")
	assert.Contains(t, text, "Weather: Heavy Thunderstorm rain")
	assert.Contains(t, text, "(cumulonimbus)")
}

func TestDecode_BlankPassesThrough(t *testing.T) {
	assert.Equal(t, "", metar.Decode("  "))
}

func TestExtract(t *testing.T) {
	s := metar.Extract(ksfo)

	assert.Equal(t, "Wind 280° at 15 knots gusting 25", s.Wind)
	assert.Equal(t, "Visibility 10SM", s.Visibility)
	assert.Equal(t, "Temp 18°C", s.Temperature)
	assert.Equal(t, "Wind 280° at 15 knots gusting 25, Visibility 10SM, Temp 18°C", s.String())
	assert.False(t, s.Empty())
}

func TestExtract_Partial(t *testing.T) {
	s := metar.Extract("KSJC 121753Z 31008KT M05/M10")

	assert.Equal(t, "Wind 310° at 8 knots", s.Wind)
	assert.Empty(t, s.Visibility)
	assert.Equal(t, "Temp -5°C", s.Temperature)

	assert.True(t, metar.Extract("").Empty())
}
