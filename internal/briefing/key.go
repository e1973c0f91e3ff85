// Package briefing turns a route and its observations into a pilot briefing.
package briefing

import "strings"

// Key identifies equivalent summary requests. Two requests with equal keys
// share one generation while in flight.
type Key struct {
	Codes string // ordered codes joined with ">"
	First string
	Last  string
}

// NewKey derives a Key from ordered airport codes.
func NewKey(codes []string) Key {
	if len(codes) == 0 {
		return Key{}
	}
	return Key{
		Codes: strings.Join(codes, ">"),
		First: codes[0],
		Last:  codes[len(codes)-1],
	}
}

func (k Key) String() string {
	return k.Codes
}
