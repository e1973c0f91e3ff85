// Package featureflags provides runtime switches for briefing generation.
package featureflags

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Well-known feature flag keys.
const (
	// FlagDisableAISummary skips the text generation tiers and serves the local summary.
	FlagDisableAISummary = "disable_ai_summary"

	// FlagCompactOnly skips the detailed tier and asks for the compact summary directly.
	FlagCompactOnly = "compact_only"

	// FlagIncludeCorridorDefault adds corridor airports when a request does not say.
	FlagIncludeCorridorDefault = "include_corridor_default"
)

// Flag represents a feature flag with its current value.
type Flag struct {
	Key       string    `json:"key"`
	Value     any       `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FlagList represents a list of feature flags.
type FlagList struct {
	Items []Flag `json:"items"`
}

// FlagUpdate represents a single flag update request.
type FlagUpdate struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// FlagUpdateRequest represents a request to update feature flags.
type FlagUpdateRequest struct {
	Updates []FlagUpdate `json:"updates"`
	Reason  string       `json:"reason"`
}

// Validate checks that every update names a known flag and carries a boolean.
func (r FlagUpdateRequest) Validate() error {
	if len(r.Updates) == 0 {
		return fmt.Errorf("%w: no updates", ErrInvalidUpdate)
	}
	var problems []string
	seen := make(map[string]bool, len(r.Updates))
	for _, u := range r.Updates {
		switch {
		case !Known(u.Key):
			problems = append(problems, fmt.Sprintf("unknown flag %q", u.Key))
		case seen[u.Key]:
			problems = append(problems, fmt.Sprintf("flag %q updated twice", u.Key))
		default:
			if _, ok := u.Value.(bool); !ok {
				problems = append(problems, fmt.Sprintf("flag %q must be a boolean", u.Key))
			}
		}
		seen[u.Key] = true
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidUpdate, strings.Join(problems, "; "))
	}
	return nil
}

// Flags converts the request into flags ready to store.
func (r FlagUpdateRequest) Flags() []*Flag {
	flags := make([]*Flag, 0, len(r.Updates))
	for _, u := range r.Updates {
		flags = append(flags, &Flag{Key: u.Key, Value: u.Value})
	}
	return flags
}

// BoolValue returns the flag value as a boolean.
// Returns the default value if the flag is nil or not a boolean.
func (f *Flag) BoolValue(defaultValue bool) bool {
	if f == nil {
		return defaultValue
	}
	switch v := f.Value.(type) {
	case bool:
		return v
	case float64:
		// JSON unmarshals numbers as float64
		return v != 0
	case string:
		return v == "true"
	default:
		return defaultValue
	}
}

// Known reports whether key is one of the well-known flags.
func Known(key string) bool {
	_, ok := DefaultFlags()[key]
	return ok
}

// DefaultFlags returns the default feature flags. Every switch starts off.
func DefaultFlags() map[string]*Flag {
	var zero time.Time
	return map[string]*Flag{
		FlagDisableAISummary:       {Key: FlagDisableAISummary, Value: false, UpdatedAt: zero},
		FlagCompactOnly:            {Key: FlagCompactOnly, Value: false, UpdatedAt: zero},
		FlagIncludeCorridorDefault: {Key: FlagIncludeCorridorDefault, Value: false, UpdatedAt: zero},
	}
}

// Sorted returns the flags ordered by key.
func Sorted(flags map[string]*Flag) FlagList {
	list := FlagList{Items: make([]Flag, 0, len(flags))}
	for _, f := range flags {
		if f != nil {
			list.Items = append(list.Items, *f)
		}
	}
	sort.Slice(list.Items, func(i, j int) bool { return list.Items[i].Key < list.Items[j].Key })
	return list
}
