package route

import (
	"context"
	"fmt"
	"sort"

	"github.com/AmeyaMprojects/pilot-brief/internal/geo"
)

// Corridor search defaults.
const (
	DefaultCorridorWidthNM  = 50.0
	DefaultDetourTolerance  = 1.15
	DefaultCorridorMaxCount = 25
)

// Candidate is a location that may lie along a route.
type Candidate struct {
	Code       string
	Name       string
	Coordinate geo.Coordinate
}

// CandidateSource lists every location eligible for corridor search.
type CandidateSource interface {
	Candidates(ctx context.Context) ([]Candidate, error)
}

// CorridorOptions controls corridor search.
type CorridorOptions struct {
	WidthNM         float64 // maximum cross-track distance
	DetourTolerance float64 // maximum (d(start,a)+d(a,end)) / d(start,end)
	MaxCount        int     // 0 means unlimited
}

// DefaultCorridorOptions returns the default corridor settings.
func DefaultCorridorOptions() CorridorOptions {
	return CorridorOptions{
		WidthNM:         DefaultCorridorWidthNM,
		DetourTolerance: DefaultDetourTolerance,
		MaxCount:        DefaultCorridorMaxCount,
	}
}

// CorridorAirport is a candidate found near one leg of a route.
type CorridorAirport struct {
	Candidate
	LegIndex     int
	OffTrackNM   float64
	FromStartNM  float64
	DetourFactor float64
}

// Corridor finds candidates near the route's legs.
//
// Route points are excluded and each candidate is reported once, against the
// first leg it qualifies for. Results are ordered by leg, then by distance
// from the leg start.
func Corridor(ctx context.Context, rt *Route, src CandidateSource, opts CorridorOptions) ([]CorridorAirport, error) {
	if opts.WidthNM <= 0 {
		opts.WidthNM = DefaultCorridorWidthNM
	}
	if opts.DetourTolerance < 1 {
		opts.DetourTolerance = DefaultDetourTolerance
	}

	candidates, err := src.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing corridor candidates: %w", err)
	}

	onRoute := make(map[string]bool, rt.Len())
	for _, code := range rt.Codes() {
		onRoute[code] = true
	}

	found := make(map[string]bool)
	var result []CorridorAirport

	for i, leg := range rt.Legs() {
		if leg.DistanceNM == 0 {
			continue
		}

		var legMatches []CorridorAirport
		for _, c := range candidates {
			code := NormalizeCode(c.Code)
			if onRoute[code] || found[code] {
				continue
			}

			fromStart := geo.DistanceNM(leg.From.Coordinate, c.Coordinate)
			toEnd := geo.DistanceNM(c.Coordinate, leg.To.Coordinate)
			detour := (fromStart + toEnd) / leg.DistanceNM
			if detour > opts.DetourTolerance {
				continue
			}

			offTrack := geo.CrossTrackNM(c.Coordinate, leg.From.Coordinate, leg.To.Coordinate)
			if offTrack > opts.WidthNM {
				continue
			}

			c.Code = code
			legMatches = append(legMatches, CorridorAirport{
				Candidate:    c,
				LegIndex:     i,
				OffTrackNM:   offTrack,
				FromStartNM:  fromStart,
				DetourFactor: detour,
			})
		}

		sort.Slice(legMatches, func(a, b int) bool {
			return legMatches[a].FromStartNM < legMatches[b].FromStartNM
		})

		for _, m := range legMatches {
			found[m.Code] = true
		}
		result = append(result, legMatches...)
	}

	if opts.MaxCount > 0 && len(result) > opts.MaxCount {
		result = result[:opts.MaxCount]
	}

	return result, nil
}
