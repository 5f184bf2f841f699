// Package completion wraps the external OpenAI-compatible chat-completion
// API behind the ports.CompletionProvider contract. One synchronous request
// per invocation: no retry, no backoff, no streaming. A retry is whatever the
// end user triggers by regenerating.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxResponseSize limits the provider response body to prevent memory
// exhaustion on a misbehaving endpoint.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// DefaultBaseURL targets Groq's OpenAI-compatible API.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultModel is the fixed model identifier sent with every request.
const DefaultModel = "llama3-8b-8192"

// defaultTemperature is the fixed sampling temperature.
const defaultTemperature = 0.7

// Config configures the completion client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Client issues chat-completion requests. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// NewClient creates a completion client.
func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // allow time for long generations
		},
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends promptText as the sole user-turn message and returns the
// first choice's text. Failure variants:
//
//   - ErrUnreachable: the request never got a response
//   - *ProviderError: the provider answered with a non-success status
//   - ErrMalformedResponse: the body did not decode
//   - ErrEmptyResult: the body decoded but carried no content
func (c *Client) Complete(ctx context.Context, promptText string) (string, error) {
	payload := completionRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: promptText}},
		Temperature: defaultTemperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Completion provider unreachable", zap.Error(err), zap.String("url", url))
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Completion provider rejected request",
			zap.Int("status", resp.StatusCode),
			zap.String("model", c.model),
		)
		return "", &ProviderError{Status: resp.StatusCode, Body: string(respBody)}
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", ErrEmptyResult
	}

	return parsed.Choices[0].Message.Content, nil
}
