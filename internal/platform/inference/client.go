// Package inference provides a minimal client for an OpenAI-compatible
// chat-completion service. The server uses it to obtain generated text from a
// hosted language model; the client itself is stateless per call, so a single
// instance is safe for concurrent use.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the connection settings for the completion service.
type Config struct {
	BaseURL string        // e.g. https://router.huggingface.co/v1
	Model   string        // model identifier sent with every request
	Token   string        // bearer credential, required
	Timeout time.Duration // per-call HTTP timeout
}

// Message is a single role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Client is the chat-completion operation the rest of the server depends on.
type Client interface {
	ChatCompletion(ctx context.Context, req Request) (string, error)
}

// HTTPClient talks to an OpenAI-compatible /chat/completions endpoint.
type HTTPClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewHTTPClient validates the configuration and builds a client. A missing
// bearer credential is a ConfigError so callers can distinguish operator
// misconfiguration from upstream failures.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.Token == "" {
		return nil, &ConfigError{Reason: "bearer credential is not configured (set HF_TOKEN)"}
	}
	if cfg.BaseURL == "" {
		return nil, &ConfigError{Reason: "inference base URL is not configured"}
	}
	if cfg.Model == "" {
		return nil, &ConfigError{Reason: "model identifier is not configured"}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// ChatCompletion performs one completion call and returns the generated text.
// It never retries: a failed call surfaces as an UpstreamError and the caller
// decides what to do with the request.
func (c *HTTPClient) ChatCompletion(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.cfg.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Status: resp.StatusCode, Body: snippet(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &UpstreamError{Status: resp.StatusCode, Body: snippet(respBody), Err: err}
	}
	if len(parsed.Choices) == 0 {
		return "", &UpstreamError{Status: resp.StatusCode, Body: snippet(respBody), Err: fmt.Errorf("response contains no choices")}
	}

	return parsed.Choices[0].Message.Content, nil
}

// snippet bounds an upstream body for inclusion in error messages.
func snippet(b []byte) string {
	const max = 512
	s := string(b)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
