package models

// BriefingRequest is the body of POST /v1/briefings and POST /v1/routes:analyze.
type BriefingRequest struct {
	// Route lists airport codes in flight order, departure first.
	Route []string `json:"route"`

	// IncludeCorridor adds airports near the route legs. When omitted the
	// include_corridor_default flag decides.
	IncludeCorridor *bool `json:"includeCorridor,omitempty"`
}

// BriefingResponse is returned by POST /v1/briefings.
type BriefingResponse struct {
	ID                string            `json:"id"`
	Status            string            `json:"status"`
	Text              string            `json:"text,omitempty"`
	Message           string            `json:"message,omitempty"`
	Tier              string            `json:"tier,omitempty"`
	Annotation        string            `json:"annotation,omitempty"`
	Cause             string            `json:"cause,omitempty"`
	RetryAfterSeconds int               `json:"retryAfterSeconds,omitempty"`
	Route             *RouteView        `json:"route,omitempty"`
	Corridor          []CorridorAirport `json:"corridor,omitempty"`
	Observations      []Observation     `json:"observations,omitempty"`
	WeatherSummary    *WeatherSummary   `json:"weatherSummary,omitempty"`
	GeneratedAt       Timestamp         `json:"generatedAt"`
}

// RouteAnalysis is returned by POST /v1/routes:analyze.
type RouteAnalysis struct {
	Route    RouteView         `json:"route"`
	Corridor []CorridorAirport `json:"corridor"`
}

// RouteView describes a built route.
type RouteView struct {
	Summary                    string       `json:"summary"`
	Points                     []RoutePoint `json:"points"`
	Legs                       []RouteLeg   `json:"legs"`
	TotalDistanceNM            float64      `json:"totalDistanceNm"`
	CruiseSpeedKT              float64      `json:"cruiseSpeedKt"`
	EstimatedFlightTimeMinutes int          `json:"estimatedFlightTimeMinutes"`
	Polyline                   string       `json:"polyline"`
}

// RoutePoint is one airport on the route.
type RoutePoint struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Point Point  `json:"point"`
}

// RouteLeg connects two consecutive route points.
type RouteLeg struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	DistanceNM float64 `json:"distanceNm"`
	CourseDeg  float64 `json:"courseDeg"`
}

// CorridorAirport is an airport found near a route leg.
type CorridorAirport struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Point        Point   `json:"point"`
	LegIndex     int     `json:"legIndex"`
	OffTrackNM   float64 `json:"offTrackNm"`
	FromStartNM  float64 `json:"fromStartNm"`
	DetourFactor float64 `json:"detourFactor"`
}

// Observation is the latest weather report for one airport.
type Observation struct {
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	Report    string     `json:"report,omitempty"`
	Decoded   string     `json:"decoded,omitempty"`
	Category  string     `json:"flightCategory,omitempty"`
	Error     string     `json:"error,omitempty"`
	FetchedAt *Timestamp `json:"fetchedAt,omitempty"`
}

// WeatherSummary counts report availability across the briefed airports.
type WeatherSummary struct {
	Total       int     `json:"total"`
	Available   int     `json:"available"`
	Unavailable int     `json:"unavailable"`
	SuccessRate float64 `json:"successRate"`
}

// Airport is a directory entry.
type Airport struct {
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	Point     Point      `json:"point"`
	UpdatedAt *Timestamp `json:"updatedAt,omitempty"`
}

// InvalidateObservationsRequest is the body of POST /v1/admin/observations/invalidate.
// An empty code list drops every cached observation.
type InvalidateObservationsRequest struct {
	Codes []string `json:"codes"`
}
