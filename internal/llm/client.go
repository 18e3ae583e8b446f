package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrUnavailable covers timeouts, refused connections and non-2xx replies.
	ErrUnavailable = errors.New("llm service unavailable")
	// ErrEmptyResponse is returned when the service answers 2xx with no body.
	ErrEmptyResponse = errors.New("empty response from llm service")
	// ErrBadResponse is returned when the body is not valid JSON.
	ErrBadResponse = errors.New("invalid response from llm service")
)

// Cap on how much of a generation reply is buffered for relaying.
const maxResponseBytes = 8 << 20

// Client talks to an Ollama-compatible /api/generate endpoint
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a client whose every request is bounded by timeout
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://127.0.0.1:11434"
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Generate sends prompt and returns the service's raw status and body.
func (c *Client) Generate(ctx context.Context, prompt string) (int, []byte, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, truncate(body, 200))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return 0, nil, ErrEmptyResponse
	}
	if !json.Valid(body) {
		return 0, nil, fmt.Errorf("%w: %s", ErrBadResponse, truncate(body, 200))
	}

	return resp.StatusCode, body, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
