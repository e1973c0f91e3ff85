// Package route builds validated flight routes from ordered location codes.
package route

import (
	"context"
	"errors"
	"fmt"

	"github.com/AmeyaMprojects/pilot-brief/internal/geo"
)

// Sentinel errors for route construction.
var (
	// ErrTooFewPoints indicates fewer than two distinct, non-empty codes.
	ErrTooFewPoints = errors.New("route needs at least two distinct locations")
	// ErrUnknownCode indicates a code the lookup could not resolve.
	ErrUnknownCode = errors.New("unknown location code")
	// ErrDuplicateCode indicates the same code appears more than once.
	ErrDuplicateCode = errors.New("duplicate location code")
	// ErrLocationNotFound is returned by a Lookup for codes it does not know.
	ErrLocationNotFound = errors.New("location not found")
)

// ErrorKind classifies a route construction failure.
type ErrorKind string

const (
	KindTooFewPoints  ErrorKind = "TOO_FEW_POINTS"
	KindUnknownCode   ErrorKind = "UNKNOWN_CODE"
	KindDuplicateCode ErrorKind = "DUPLICATE_CODE"
)

// Error describes why a route could not be built.
type Error struct {
	Kind ErrorKind
	Code string // offending code, empty for KindTooFewPoints
	Err  error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Code)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Role is the position-derived role of a point in a route.
type Role string

const (
	RoleDeparture   Role = "departure"
	RoleWaypoint    Role = "waypoint"
	RoleDestination Role = "destination"
)

// Location is what a Lookup resolves a code to.
type Location struct {
	Name       string
	Coordinate geo.Coordinate
}

// Lookup resolves a normalized location code.
// Implementations return ErrLocationNotFound for unknown codes.
type Lookup interface {
	Lookup(ctx context.Context, code string) (Location, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, code string) (Location, error)

// Lookup calls f(ctx, code).
func (f LookupFunc) Lookup(ctx context.Context, code string) (Location, error) {
	return f(ctx, code)
}

// Point is a single location in a route.
type Point struct {
	Code       string
	Name       string
	Coordinate geo.Coordinate
	Role       Role
}

// Leg connects two consecutive route points.
type Leg struct {
	From       Point
	To         Point
	DistanceNM float64
	CourseDeg  float64 // initial true course
}
