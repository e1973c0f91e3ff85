// Package airport provides the airport directory used to resolve route codes.
package airport

import (
	"errors"
	"time"

	"github.com/AmeyaMprojects/pilot-brief/internal/geo"
)

// Airport errors.
var (
	ErrAirportNotFound = errors.New("airport not found")
	ErrInvalidCode     = errors.New("invalid airport code")
)

// Airport is a directory entry.
type Airport struct {
	Code       string // ICAO identifier, upper case
	Name       string
	Coordinate geo.Coordinate
	UpdatedAt  time.Time
}

// Validate checks the airport has a usable code and coordinate.
func (a *Airport) Validate() error {
	if !ValidCode(a.Code) {
		return ErrInvalidCode
	}
	return a.Coordinate.Validate()
}

// ValidCode reports whether code is a 3 or 4 character upper-case
// alphanumeric identifier.
func ValidCode(code string) bool {
	if len(code) < 3 || len(code) > 4 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Seed returns a copy of the built-in airport list.
func Seed() []Airport {
	out := make([]Airport, len(seedAirports))
	copy(out, seedAirports)
	return out
}
