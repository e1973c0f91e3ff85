// Package geo provides great-circle calculations for flight routes.
// All distances are in nautical miles.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusNM is the mean Earth radius in nautical miles.
const EarthRadiusNM = 3440.065

// ErrInvalidCoordinate indicates a latitude or longitude outside its range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Validate checks the coordinate is within [-90,90] x [-180,180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %f out of range [-90, 90]", ErrInvalidCoordinate, c.Lat)
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %f out of range [-180, 180]", ErrInvalidCoordinate, c.Lng)
	}
	return nil
}

// DistanceNM returns the haversine great-circle distance between a and b.
func DistanceNM(a, b Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	// Rounding can push h marginally past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusNM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// TotalDistanceNM sums the distances between consecutive points.
// Empty and single-point inputs yield 0.
func TotalDistanceNM(points []Coordinate) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += DistanceNM(points[i-1], points[i])
	}
	return total
}

// InitialBearing returns the initial true bearing from a to b in degrees [0, 360).
func InitialBearing(a, b Coordinate) float64 {
	lat1, lat2 := toRad(a.Lat), toRad(b.Lat)
	dLng := toRad(b.Lng - a.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	deg := toDeg(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// CrossTrackNM returns the absolute distance from p to the great circle
// through start and end.
func CrossTrackNM(p, start, end Coordinate) float64 {
	d13 := DistanceNM(start, p) / EarthRadiusNM
	theta13 := toRad(InitialBearing(start, p))
	theta12 := toRad(InitialBearing(start, end))

	s := math.Sin(d13) * math.Sin(theta13-theta12)
	s = math.Min(1, math.Max(-1, s))

	return math.Abs(math.Asin(s) * EarthRadiusNM)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
