// Package ollama talks to an Ollama server's native generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domai "github.com/bryanwahyu/textlens/internal/domain/ai"
	"github.com/bryanwahyu/textlens/internal/infra/ai"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "mistral:latest"
	DefaultTimeout = 10 * time.Second

	generatePath = "/api/generate"
	tagsPath     = "/api/tags"
)

// Config captures the settings needed to reach the backend.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	// StrictResponse turns a body without a "response" field into a
	// malformed-response failure instead of placeholder text.
	StrictResponse bool
}

// Client implements domai.Client against POST /api/generate.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client. The per-call timeout is
// still enforced through the request context.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response *string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Generate sends one non-streaming generate request. It is attempted exactly
// once and bounded by the configured timeout.
func (c *Client) Generate(ctx context.Context, prompt string) domai.Outcome {
	encoded, err := json.Marshal(generateRequest{Model: c.cfg.Model, Prompt: prompt, Stream: false})
	if err != nil {
		return domai.Fail(domai.KindUnexpected, fmt.Sprintf("encode inference request: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint, err := url.JoinPath(c.cfg.BaseURL, generatePath)
	if err != nil {
		return domai.Fail(domai.KindUnexpected, fmt.Sprintf("build inference url: %v", err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return domai.Fail(domai.KindUnexpected, fmt.Sprintf("build inference request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ai.ClassifyTransport(err, c.cfg.BaseURL, c.cfg.Timeout)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ai.ClassifyTransport(err, c.cfg.BaseURL, c.cfg.Timeout)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ai.Rejected(resp.StatusCode, backendMessage(body))
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ai.Malformed(err)
	}
	if parsed.Response == nil {
		return ai.MissingContent(c.cfg.StrictResponse, "response")
	}
	return domai.Success(*parsed.Response)
}

// HealthCheck verifies the server answers its model listing endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint, err := url.JoinPath(c.cfg.BaseURL, tagsPath)
	if err != nil {
		return fmt.Errorf("ollama health: build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("ollama health: new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama health: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama health: http %d", resp.StatusCode)
	}
	return nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.cfg.Model }

// backendMessage prefers Ollama's {"error": "..."} payload over the raw body.
func backendMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && strings.TrimSpace(e.Error) != "" {
		return e.Error
	}
	return string(body)
}
