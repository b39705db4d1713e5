// Package llm provides the Cloudflare Workers AI client used for
// narrative generation.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	apiURLTemplate = "https://api.cloudflare.com/client/v4/accounts/%s/ai/run/%s"

	// DefaultModel is the text-completion model used when none is configured.
	DefaultModel = "@cf/meta/llama-3.1-8b-instruct"
)

// Client wraps the Workers AI REST API for single prompt/response calls.
type Client struct {
	accountID  string
	apiToken   string
	model      string
	httpClient *http.Client

	// Rate limiting: max calls per minute.
	mu        sync.Mutex
	callCount int
	resetAt   time.Time
	maxPerMin int
}

// NewClient creates a Workers AI client.
// Returns nil if accountID or apiToken is empty (generation disabled).
func NewClient(accountID, apiToken, model string) *Client {
	if accountID == "" || apiToken == "" {
		return nil
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		accountID: accountID,
		apiToken:  apiToken,
		model:     model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxPerMin: 60,
	}
}

// Enabled returns true if the client has credentials.
func (c *Client) Enabled() bool {
	return c != nil && c.apiToken != ""
}

// request is the Workers AI request body.
type request struct {
	Prompt string `json:"prompt"`
}

// response is the Workers AI response envelope.
type response struct {
	Result struct {
		Response string `json:"response"`
	} `json:"result"`
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Generate sends a prompt to the model and returns the raw response text.
// A single request/response per call; no retries, no streaming.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("LLM client not configured")
	}

	// Rate limiting.
	c.mu.Lock()
	now := time.Now()
	if now.After(c.resetAt) {
		c.callCount = 0
		c.resetAt = now.Add(time.Minute)
	}
	if c.callCount >= c.maxPerMin {
		c.mu.Unlock()
		return "", fmt.Errorf("rate limit exceeded (%d calls/min)", c.maxPerMin)
	}
	c.callCount++
	c.mu.Unlock()

	body, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf(apiURLTemplate, c.accountID, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("API call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp response
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if !apiResp.Success {
		msgs := make([]string, 0, len(apiResp.Errors))
		for _, e := range apiResp.Errors {
			msgs = append(msgs, fmt.Sprintf("%d: %s", e.Code, e.Message))
		}
		return "", fmt.Errorf("API failure: %s", strings.Join(msgs, "; "))
	}

	slog.Debug("workers ai call",
		"model", c.model,
		"prompt_len", len(prompt),
		"response_len", len(apiResp.Result.Response),
	)

	return apiResp.Result.Response, nil
}
