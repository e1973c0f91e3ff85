// Package weather gathers per-airport observations for a route.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrNoCodes             = errors.New("no airport codes requested")
	ErrCacheMiss           = errors.New("observation not cached")
)

// Status is the outcome of fetching one observation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ObservationRecord is the latest report for one airport.
type ObservationRecord struct {
	Code        string    `json:"code"`
	Status      Status    `json:"status"`
	RawText     string    `json:"metar,omitempty"`
	ParsedText  string    `json:"parsed_metar,omitempty"`
	ErrorDetail string    `json:"error,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Available reports whether the record carries usable report text.
func (r ObservationRecord) Available() bool {
	return r.Status == StatusSuccess && (r.RawText != "" || r.ParsedText != "")
}

// Text returns the parsed text when present, else the raw report.
func (r ObservationRecord) Text() string {
	if r.ParsedText != "" {
		return r.ParsedText
	}
	return r.RawText
}

// Unavailable builds an error record.
func Unavailable(code, detail string, at time.Time) ObservationRecord {
	return ObservationRecord{
		Code:        code,
		Status:      StatusError,
		ErrorDetail: detail,
		FetchedAt:   at,
	}
}

// Observations maps airport code to its record.
type Observations map[string]ObservationRecord

// Complete reports whether every code has a record.
func (o Observations) Complete(codes []string) bool {
	return len(o.Missing(codes)) == 0
}

// Missing lists, in order, the codes without a record.
func (o Observations) Missing(codes []string) []string {
	var missing []string
	for _, c := range codes {
		if _, ok := o[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// Split partitions codes, in order, into available and unavailable.
func (o Observations) Split(codes []string) (available, unavailable []string) {
	for _, c := range codes {
		if rec, ok := o[c]; ok && rec.Available() {
			available = append(available, c)
		} else {
			unavailable = append(unavailable, c)
		}
	}
	return available, unavailable
}

// Summary counts observation availability over a set of codes.
type Summary struct {
	Total       int     `json:"total"`
	Available   int     `json:"available"`
	Unavailable int     `json:"unavailable"`
	SuccessRate float64 `json:"successRate"` // percentage, 0-100
}

// Summarize counts availability for codes.
func Summarize(codes []string, obs Observations) Summary {
	available, unavailable := obs.Split(codes)
	s := Summary{
		Total:       len(codes),
		Available:   len(available),
		Unavailable: len(unavailable),
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Available) / float64(s.Total) * 100
	}
	return s
}
