package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/AmeyaMprojects/pilot-brief/internal/provider/resilience"
)

const (
	// ProviderName identifies this client in the provider registry.
	ProviderName = "textgen"

	// DefaultBaseURL is the Generative Language API base URL.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-1.5-flash"

	maxResponseBytes = 1 << 20
)

// Request is one generation call.
type Request struct {
	Prompt          string  `json:"prompt"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

// Model describes one entry of the model catalogue.
type Model struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName,omitempty"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

// SupportsGeneration reports whether the model accepts generateContent calls.
func (m Model) SupportsGeneration() bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// ClientConfig holds configuration for the text-generation client.
type ClientConfig struct {
	// APIKey authenticates requests. An empty key fails every call with
	// KindConfigurationMissing without touching the network.
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// Model is the model name without the "models/" prefix (optional).
	Model string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client calls the text-generation service.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new text-generation client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := strings.TrimPrefix(cfg.Model, "models/")
	if model == "" {
		model = DefaultModel
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rc := resilience.DefaultClientConfig(ProviderName)
		rc.Timeout = 30 * time.Second
		rc.MaxRetries = 1
		httpClient = resilience.NewClient(rc)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

// Generate sends req and returns the extracted text. Every error is an *Error.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", newError(KindConfigurationMissing, "no API key configured", nil)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: generationConfig{
			MaxOutputTokens: req.MaxOutputTokens,
			Temperature:     req.Temperature,
		},
	})
	if err != nil {
		return "", newError(KindUnavailable, "encoding request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", newError(KindUnavailable, "creating request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.DoWithContext(ctx, httpReq)
	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return "", newError(KindUnavailable, "circuit open", err)
		}
		return "", newError(KindUnavailable, "executing request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", newError(KindUnavailable, "reading response", err)
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("status", resp.StatusCode).
		Int("max_output_tokens", req.MaxOutputTokens).
		Dur("duration", time.Since(start)).
		Msg("text generation response")

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp, raw)
	}

	res, err := NormalizeResponse(raw)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.StatusCode = resp.StatusCode
		}
		return "", err
	}
	if res.Truncated() {
		e := newError(KindTokenLimitExceeded, fmt.Sprintf("output cut off after %d characters", len(res.Text)), nil)
		e.StatusCode = resp.StatusCode
		return "", e
	}
	return res.Text, nil
}

// ListModels returns the model catalogue visible to the API key.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	if c.apiKey == "" {
		return nil, newError(KindConfigurationMissing, "no API key configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return nil, classifyStatus(resp, raw)
	}

	var out struct {
		Models []Model `json:"models"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out.Models, nil
}

// apiError is the error envelope returned by the service.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Type       string `json:"@type"`
			RetryDelay string `json:"retryDelay"`
		} `json:"details"`
	} `json:"error"`
}

// classifyStatus maps a non-200 response to an *Error.
func classifyStatus(resp *http.Response, raw []byte) *Error {
	var body apiError
	_ = json.Unmarshal(raw, &body)

	msg := body.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}

	kind := KindUnavailable
	if resp.StatusCode == http.StatusTooManyRequests || isQuota(body.Error.Status, msg) {
		kind = KindQuotaExceeded
	}

	e := newError(kind, msg, nil)
	e.StatusCode = resp.StatusCode
	if kind == KindQuotaExceeded {
		e.RetryAfter = retryAfter(resp, body)
	}
	return e
}

func isQuota(status, msg string) bool {
	if status == "RESOURCE_EXHAUSTED" {
		return true
	}
	return strings.Contains(strings.ToLower(msg), "quota")
}

// retryAfter reads RetryInfo.retryDelay, falling back to the Retry-After header.
func retryAfter(resp *http.Response, body apiError) time.Duration {
	for _, d := range body.Error.Details {
		if !strings.HasSuffix(d.Type, "RetryInfo") || d.RetryDelay == "" {
			continue
		}
		if delay, err := time.ParseDuration(d.RetryDelay); err == nil {
			return delay
		}
	}

	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
