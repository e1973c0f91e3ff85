package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus   `json:"status"`
	Time    Timestamp      `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// SystemStatus represents the overall system status.
type SystemStatus struct {
	Status                 HealthStatus      `json:"status"`
	Time                   Timestamp         `json:"time"`
	Subsystems             []SubsystemStatus `json:"subsystems"`
	Providers              []ProviderStatus  `json:"providers"`
	Briefings              BriefingStats     `json:"briefings"`
	ActiveDegradationFlags []string          `json:"activeDegradationFlags,omitempty"`
}

// SubsystemStatus represents the status of a subsystem.
type SubsystemStatus struct {
	Name   string       `json:"name"`
	Status HealthStatus `json:"status"`
	Detail *string      `json:"detail,omitempty"`
}

// ProviderStatus represents the status of an external provider.
type ProviderStatus struct {
	Provider      string       `json:"provider"`
	Status        HealthStatus `json:"status"`
	CircuitState  string       `json:"circuitState"`
	LastSuccessAt *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp   `json:"lastFailureAt,omitempty"`
	CircuitTrips  uint64       `json:"circuitTrips"`
	LastChangeAt  *Timestamp   `json:"circuitChangedAt,omitempty"`
	Message       *string      `json:"message,omitempty"`
}

// BriefingStats reports summary coalescing and observation cache counters.
type BriefingStats struct {
	SummariesStarted   int64 `json:"summariesStarted"`
	SummariesCoalesced int64 `json:"summariesCoalesced"`
	SummaryInFlight    bool  `json:"summaryInFlight"`
	CachedObservations int   `json:"cachedObservations"`
	FreshObservations  int   `json:"freshObservations"`
}

// FlagList lists feature flags.
type FlagList struct {
	Items []Flag `json:"items"`
}

// Flag is a feature flag and its current value.
type Flag struct {
	Key       string     `json:"key"`
	Value     any        `json:"value"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}
