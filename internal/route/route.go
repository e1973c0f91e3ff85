package route

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"

	"github.com/AmeyaMprojects/pilot-brief/internal/geo"
)

// DefaultCruiseSpeedKT is the ground speed used for duration estimates.
const DefaultCruiseSpeedKT = 120.0

// Route is an ordered, immutable sequence of at least two points.
type Route struct {
	points   []Point
	totalNM  float64
	cruiseKT float64
	corridor []CorridorAirport
}

type buildOptions struct {
	cruiseKT float64
}

// Option configures Build.
type Option func(*buildOptions)

// WithCruiseSpeed sets the ground speed in knots used by EstimatedDuration.
// Non-positive values are ignored.
func WithCruiseSpeed(kt float64) Option {
	return func(o *buildOptions) {
		if kt > 0 {
			o.cruiseKT = kt
		}
	}
}

// NormalizeCode trims and upper-cases a location code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Build validates codes and resolves them into a Route.
//
// Codes are normalized and empty entries dropped. Validation order is:
// too few distinct codes, duplicate codes, then unknown codes, so a
// malformed request never costs a lookup.
func Build(ctx context.Context, codes []string, lookup Lookup, opts ...Option) (*Route, error) {
	o := buildOptions{cruiseKT: DefaultCruiseSpeedKT}
	for _, opt := range opts {
		opt(&o)
	}

	normalized := make([]string, 0, len(codes))
	for _, c := range codes {
		if n := NormalizeCode(c); n != "" {
			normalized = append(normalized, n)
		}
	}

	seen := make(map[string]bool, len(normalized))
	var duplicate string
	for _, c := range normalized {
		if seen[c] && duplicate == "" {
			duplicate = c
		}
		seen[c] = true
	}

	if len(seen) < 2 {
		return nil, &Error{Kind: KindTooFewPoints, Err: ErrTooFewPoints}
	}
	if duplicate != "" {
		return nil, &Error{Kind: KindDuplicateCode, Code: duplicate, Err: ErrDuplicateCode}
	}

	points := make([]Point, len(normalized))
	for i, code := range normalized {
		loc, err := lookup.Lookup(ctx, code)
		if err != nil {
			if errors.Is(err, ErrLocationNotFound) {
				return nil, &Error{Kind: KindUnknownCode, Code: code, Err: ErrUnknownCode}
			}
			return nil, fmt.Errorf("looking up %s: %w", code, err)
		}
		if err := loc.Coordinate.Validate(); err != nil {
			return nil, fmt.Errorf("location %s: %w", code, err)
		}

		name := loc.Name
		if name == "" {
			name = code
		}

		points[i] = Point{
			Code:       code,
			Name:       name,
			Coordinate: loc.Coordinate,
			Role:       roleAt(i, len(normalized)),
		}
	}

	return newRoute(points, o.cruiseKT), nil
}

func newRoute(points []Point, cruiseKT float64) *Route {
	coords := make([]geo.Coordinate, len(points))
	for i, p := range points {
		coords[i] = p.Coordinate
	}
	return &Route{
		points:   points,
		totalNM:  geo.TotalDistanceNM(coords),
		cruiseKT: cruiseKT,
	}
}

func roleAt(i, n int) Role {
	switch i {
	case 0:
		return RoleDeparture
	case n - 1:
		return RoleDestination
	default:
		return RoleWaypoint
	}
}

// Points returns a copy of the route points in order.
func (r *Route) Points() []Point {
	out := make([]Point, len(r.points))
	copy(out, r.points)
	return out
}

// Len returns the number of points.
func (r *Route) Len() int {
	return len(r.points)
}

// Codes returns the ordered location codes.
func (r *Route) Codes() []string {
	codes := make([]string, len(r.points))
	for i, p := range r.points {
		codes[i] = p.Code
	}
	return codes
}

// Departure returns the first point.
func (r *Route) Departure() Point {
	return r.points[0]
}

// Destination returns the last point.
func (r *Route) Destination() Point {
	return r.points[len(r.points)-1]
}

// Waypoints returns the interior points, empty for a two-point route.
func (r *Route) Waypoints() []Point {
	if len(r.points) <= 2 {
		return nil
	}
	out := make([]Point, len(r.points)-2)
	copy(out, r.points[1:len(r.points)-1])
	return out
}

// WithCorridor returns a copy of the route carrying corridor airports, as
// returned by Corridor. Airports naming a leg the route does not have are
// dropped.
func (r *Route) WithCorridor(airports []CorridorAirport) *Route {
	out := *r
	out.corridor = make([]CorridorAirport, 0, len(airports))
	for _, a := range airports {
		if a.LegIndex >= 0 && a.LegIndex < len(r.points)-1 {
			out.corridor = append(out.corridor, a)
		}
	}
	return &out
}

// CorridorAirports returns the attached corridor airports.
func (r *Route) CorridorAirports() []CorridorAirport {
	out := make([]CorridorAirport, len(r.corridor))
	copy(out, r.corridor)
	return out
}

// Path lists every code in flying order: each leg's start, that leg's
// corridor airports, and finally the destination.
func (r *Route) Path() []string {
	byLeg := make(map[int][]string, len(r.points))
	for _, a := range r.corridor {
		byLeg[a.LegIndex] = append(byLeg[a.LegIndex], a.Code)
	}

	codes := make([]string, 0, len(r.points)+len(r.corridor))
	for i, p := range r.points {
		codes = append(codes, p.Code)
		codes = append(codes, byLeg[i]...)
	}
	return codes
}

// Polyline encodes the point coordinates in the Google polyline format
// (precision 5) for map clients.
func (r *Route) Polyline() string {
	coords := make([][]float64, len(r.points))
	for i, p := range r.points {
		coords[i] = []float64{p.Coordinate.Lat, p.Coordinate.Lng}
	}
	return string(polyline.EncodeCoords(coords))
}

// Legs returns the consecutive point pairs with their distances.
func (r *Route) Legs() []Leg {
	legs := make([]Leg, 0, len(r.points)-1)
	for i := 1; i < len(r.points); i++ {
		from, to := r.points[i-1], r.points[i]
		legs = append(legs, Leg{
			From:       from,
			To:         to,
			DistanceNM: geo.DistanceNM(from.Coordinate, to.Coordinate),
			CourseDeg:  geo.InitialBearing(from.Coordinate, to.Coordinate),
		})
	}
	return legs
}

// TotalDistanceNM returns the sum of leg distances.
func (r *Route) TotalDistanceNM() float64 {
	return r.totalNM
}

// CruiseSpeedKT returns the speed used for duration estimates.
func (r *Route) CruiseSpeedKT() float64 {
	return r.cruiseKT
}

// EstimatedDuration returns the en-route time at cruise speed.
func (r *Route) EstimatedDuration() time.Duration {
	hours := r.totalNM / r.cruiseKT
	return time.Duration(hours * float64(time.Hour)).Round(time.Minute)
}

// String renders the route as "KSFO → KSJC → KLAX".
func (r *Route) String() string {
	return strings.Join(r.Codes(), " → ")
}
