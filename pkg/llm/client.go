// Package llm provides a chat-completion client for an OpenAI-compatible
// API. The only operation the pipeline needs is Complete: one system
// instruction, one user message, one free-text response.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/loregraph/loregraph/pkg/metrics"
	"github.com/loregraph/loregraph/pkg/resilience"
	"golang.org/x/time/rate"
)

// defaultCallTimeout bounds one completion call end to end.
const defaultCallTimeout = 30 * time.Second

// Completer is the contract pipeline components depend on.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

// Client calls the /v1/chat/completions endpoint of an OpenAI-compatible
// service. Calls are rate limited client-side and guarded by a circuit
// breaker.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	timeout time.Duration

	calls    *metrics.Counter
	failures *metrics.Counter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// WithRateLimit sets the request rate (per second) and burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// WithTimeout bounds each completion call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMetrics registers call counters on reg.
func WithMetrics(reg *metrics.Registry) Option {
	return func(c *Client) {
		c.calls = reg.Counter("llm_calls_total", "Completion calls attempted")
		c.failures = reg.Counter("llm_call_failures_total", "Completion calls that returned an error")
	}
}

// New creates a Client. model is the model identifier sent on every call.
func New(baseURL, apiKey, model string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 4),
		breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		timeout: defaultCallTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	if c.calls == nil {
		WithMetrics(metrics.New())(c)
	}
	return c
}

var _ Completer = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one system+user exchange and returns the trimmed
// response text.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("llm: rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.calls.Inc()
	var out string
	err := c.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		out, err = c.complete(ctx, system, user, temperature)
		return err
	})
	if err != nil {
		c.failures.Inc()
	}
	return out, err
}

func (c *Client) complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: complete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm: complete: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("llm: complete decode: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("llm: complete: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("llm: complete: empty response")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
