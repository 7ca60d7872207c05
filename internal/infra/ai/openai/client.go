package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/textlens/internal/domain/ai"
	"github.com/bryanwahyu/textlens/internal/infra/ai"
)

const (
	maxTokens      = 256
	defaultTimeout = 10 * time.Second
	// Ollama ignores the key but go-openai always sends one.
	placeholderKey = "ollama"
)

// Config for an OpenAI-compatible chat completions backend.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	Timeout        time.Duration
	StrictResponse bool
}

type Client struct {
	*openai.Client
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		key = placeholderKey
	}
	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{}
	return &Client{Client: openai.NewClientWithConfig(oc), cfg: cfg}
}

func (c *Client) Generate(ctx context.Context, prompt string) domai.Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: maxTokens,
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return c.classify(err)
	}
	if len(resp.Choices) == 0 {
		return ai.MissingContent(c.cfg.StrictResponse, "choices")
	}
	return domai.Success(resp.Choices[0].Message.Content)
}

// HealthCheck lists models to confirm the endpoint is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()
	_, err := c.ListModels(ctx)
	return err
}

func (c *Client) classify(err error) domai.Outcome {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return ai.Rejected(apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return ai.Rejected(reqErr.HTTPStatusCode, string(reqErr.Body))
	}
	return ai.ClassifyTransport(err, c.cfg.BaseURL, c.cfg.Timeout)
}
