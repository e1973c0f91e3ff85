// Package worker provides background job processing for pilot-brief.
package worker

import (
	"time"

	"github.com/AmeyaMprojects/pilot-brief/internal/route"
)

// RefreshConfig holds configuration for the observation refresh job.
type RefreshConfig struct {
	// HubAirports are refreshed on every run, in order.
	// If empty, uses DefaultHubAirports.
	HubAirports []string

	// BatchSize is the number of codes per refresh call.
	// Default: 10
	BatchSize int

	// Concurrency bounds concurrent batches.
	// Default: 4
	Concurrency int

	// Timeout bounds each batch.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultRefreshConfig returns the default refresh configuration.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		HubAirports: DefaultHubAirports(),
		BatchSize:   10,
		Concurrency: 4,
		Timeout:     30 * time.Second,
	}
}

// DefaultHubAirports returns busy US airports whose reports most briefings need.
func DefaultHubAirports() []string {
	return []string{
		"KATL", "KLAX", "KORD", "KDFW", "KDEN", "KJFK",
		"KSFO", "KSEA", "KLAS", "KMCO", "KPHX", "KBOS",
	}
}

// withDefaults fills zero fields and normalizes the hub list.
func (c RefreshConfig) withDefaults() RefreshConfig {
	def := DefaultRefreshConfig()
	if len(c.HubAirports) == 0 {
		c.HubAirports = def.HubAirports
	}
	if c.BatchSize <= 0 {
		c.BatchSize = def.BatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	c.HubAirports = normalizeCodes(c.HubAirports)
	return c
}

// Batches splits the hub list into refresh batches.
func (c RefreshConfig) Batches() [][]string {
	return batch(c.HubAirports, c.BatchSize)
}

func batch(codes []string, size int) [][]string {
	if size <= 0 {
		size = len(codes)
	}
	var out [][]string
	for start := 0; start < len(codes); start += size {
		end := min(start+size, len(codes))
		out = append(out, codes[start:end])
	}
	return out
}

// normalizeCodes upper-cases, trims and de-duplicates codes, keeping order.
func normalizeCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		n := route.NormalizeCode(c)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
