// Package openrouter is a chat-completion client for the OpenRouter
// OpenAI-compatible API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/H2Siting/pkg/errors"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "deepseek/deepseek-r1-0528:free"
)

var (
	ErrMissingAPIKey = errors.New(errors.ErrCodeLLMFailed, "API key not found. Please set the OPENROUTER_API_KEY environment variable.")
	ErrEmptyChoices  = errors.New(errors.ErrCodeLLMFailed, "completion returned no choices")
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Config configures the client.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Observer receives the outcome of each completion call.
type Observer func(model string, err error, elapsed time.Duration)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers a completion observer.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) { c.observe = o }
}

// Client calls POST {base}/chat/completions.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     logging.Logger
	observe    Observer
}

// NewClient builds a client. A missing API key is reported on first use
// so the service can start without assistant credentials.
func NewClient(cfg Config, logger logging.Logger, opts ...ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 90 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	c := &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model id.
func (c *Client) Model() string { return c.config.Model }

// Complete sends a single user prompt and returns the first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []Message{{Role: "user", Content: prompt}})
}

// Chat sends messages and returns the content of the first choice.
func (c *Client) Chat(ctx context.Context, messages []Message) (content string, err error) {
	start := time.Now()
	defer func() {
		if c.observe != nil {
			c.observe(c.config.Model, err, time.Since(start))
		}
	}()

	if c.config.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	body, err := json.Marshal(completionRequest{Model: c.config.Model, Messages: messages})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal completion request")
	}

	resp, err := c.doWithRetry(ctx, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeLLMFailed, "failed to read completion response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodeLLMFailed, "completion request failed").
			WithDetail(fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(raw), 200)))
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeLLMFailed, "failed to decode completion response")
	}
	if out.Error != nil {
		return "", errors.New(errors.ErrCodeLLMFailed, "completion request failed").WithDetail(out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return out.Choices[0].Message.Content, nil
}

func (c *Client) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	var lastErr error
	for i := 0; i <= c.config.MaxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), errors.ErrCodeLLMFailed, "completion cancelled")
			case <-time.After(c.config.RetryDelay * time.Duration(1<<(i-1))):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLLMFailed, "failed to build completion request")
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp.Body.Close()
		}
		c.logger.Warn("Completion attempt failed", logging.Int("attempt", i+1), logging.Err(lastErr))
	}
	return nil, errors.Wrap(lastErr, errors.ErrCodeLLMFailed, "completion request failed")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

//Personal.AI order the ending
