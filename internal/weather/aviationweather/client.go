// Package aviationweather fetches raw METAR reports from the
// aviationweather.gov data API.
package aviationweather

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/provider/resilience"
	"github.com/AmeyaMprojects/pilot-brief/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "aviationweather"

	// DefaultBaseURL is the aviationweather.gov data API base URL.
	DefaultBaseURL = "https://aviationweather.gov/api/data"

	// maxResponseBytes bounds the raw response read.
	maxResponseBytes = 1 << 20
)

// ClientConfig holds configuration for the aviationweather.gov client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to aviationweather.gov).
	BaseURL string

	// UserAgent is sent with every request (optional).
	UserAgent string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an aviationweather.gov METAR client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

var _ weather.Provider = (*Client)(nil)

// NewClient creates a new aviationweather.gov client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "pilot-brief"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Observations fetches the latest raw METAR for each code.
// Stations without a current report are absent from the result.
func (c *Client) Observations(ctx context.Context, codes []string) (weather.Observations, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(codes, ","))
	q.Set("format", "raw")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/metar?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return weather.Observations{}, nil
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	fetchedAt := time.Now().UTC()
	obs, err := parseRaw(io.LimitReader(resp.Body, maxResponseBytes), codes, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug().
		Int("requested", len(codes)).
		Int("received", len(obs)).
		Msg("fetched metar reports")

	return obs, nil
}

// parseRaw reads one report per line. The first report per station wins,
// since the API lists the most recent first.
func parseRaw(r io.Reader, codes []string, fetchedAt time.Time) (weather.Observations, error) {
	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}

	obs := make(weather.Observations)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		station := stationOf(line)
		if !wanted[station] {
			continue
		}
		if _, seen := obs[station]; seen {
			continue
		}

		obs[station] = weather.ObservationRecord{
			Code:      station,
			Status:    weather.StatusSuccess,
			RawText:   line,
			FetchedAt: fetchedAt,
		}
	}

	return obs, scanner.Err()
}

func stationOf(line string) string {
	for _, f := range strings.Fields(line) {
		switch f {
		case "METAR", "SPECI":
			continue
		}
		return strings.ToUpper(f)
	}
	return ""
}
