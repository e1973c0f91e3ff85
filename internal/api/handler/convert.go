package handler

import (
	"math"

	"github.com/AmeyaMprojects/pilot-brief/internal/airport"
	"github.com/AmeyaMprojects/pilot-brief/internal/api/models"
	"github.com/AmeyaMprojects/pilot-brief/internal/geo"
	"github.com/AmeyaMprojects/pilot-brief/internal/route"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather/metar"
)

func toPoint(c geo.Coordinate) models.Point {
	return models.Point{Lat: c.Lat, Lon: c.Lng}
}

func toRouteView(rt *route.Route) models.RouteView {
	points := rt.Points()
	view := models.RouteView{
		Summary:                    rt.String(),
		Points:                     make([]models.RoutePoint, 0, len(points)),
		TotalDistanceNM:            round1(rt.TotalDistanceNM()),
		CruiseSpeedKT:              rt.CruiseSpeedKT(),
		EstimatedFlightTimeMinutes: int(math.Round(rt.EstimatedDuration().Minutes())),
		Polyline:                   rt.Polyline(),
	}
	for _, p := range points {
		view.Points = append(view.Points, models.RoutePoint{
			Code:  p.Code,
			Name:  p.Name,
			Role:  string(p.Role),
			Point: toPoint(p.Coordinate),
		})
	}

	legs := rt.Legs()
	view.Legs = make([]models.RouteLeg, 0, len(legs))
	for _, l := range legs {
		view.Legs = append(view.Legs, models.RouteLeg{
			From:       l.From.Code,
			To:         l.To.Code,
			DistanceNM: round1(l.DistanceNM),
			CourseDeg:  math.Round(l.CourseDeg),
		})
	}
	return view
}

func toCorridor(airports []route.CorridorAirport) []models.CorridorAirport {
	out := make([]models.CorridorAirport, 0, len(airports))
	for _, a := range airports {
		out = append(out, models.CorridorAirport{
			Code:         a.Code,
			Name:         a.Name,
			Point:        toPoint(a.Coordinate),
			LegIndex:     a.LegIndex,
			OffTrackNM:   round1(a.OffTrackNM),
			FromStartNM:  round1(a.FromStartNM),
			DetourFactor: math.Round(a.DetourFactor*1000) / 1000,
		})
	}
	return out
}

// toObservations lists records in briefing order. Codes without a record
// are skipped.
func toObservations(codes []string, obs weather.Observations) []models.Observation {
	out := make([]models.Observation, 0, len(codes))
	for _, code := range codes {
		rec, ok := obs[code]
		if !ok {
			continue
		}
		o := models.Observation{
			Code:    rec.Code,
			Status:  string(rec.Status),
			Report:  rec.RawText,
			Decoded: rec.ParsedText,
			Error:   rec.ErrorDetail,
		}
		if !rec.FetchedAt.IsZero() {
			ts := models.Timestamp(rec.FetchedAt)
			o.FetchedAt = &ts
		}
		if rec.Available() && rec.RawText != "" {
			if report, err := metar.Parse(rec.RawText); err == nil {
				o.Category = string(report.Category())
			}
		}
		out = append(out, o)
	}
	return out
}

func toWeatherSummary(s weather.Summary) *models.WeatherSummary {
	return &models.WeatherSummary{
		Total:       s.Total,
		Available:   s.Available,
		Unavailable: s.Unavailable,
		SuccessRate: s.SuccessRate,
	}
}

func toAirport(a *airport.Airport) models.Airport {
	out := models.Airport{
		Code:  a.Code,
		Name:  a.Name,
		Point: toPoint(a.Coordinate),
	}
	if !a.UpdatedAt.IsZero() {
		ts := models.Timestamp(a.UpdatedAt)
		out.UpdatedAt = &ts
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
