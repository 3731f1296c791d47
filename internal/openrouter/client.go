// Package openrouter is the wire client for the hosted model-routing
// API. It builds chat-completion requests, executes the blocking path,
// and decodes the streaming server-sent-events path.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rdelgado/orbit/internal/config"
	"github.com/rdelgado/orbit/internal/observability"
)

// RequestFailedError is returned when the service answers with a
// non-success status. The body detail is included verbatim.
type RequestFailedError struct {
	StatusCode int
	Detail     string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Detail)
}

// Client wraps the HTTP client for routing API calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new routing API client. The timeout covers the
// entire response, including slow streamed generation, so it is on the
// order of minutes rather than seconds.
func NewClient(cfg *config.RouterConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// Response represents the non-streaming completion response.
type Response struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`

	// Raw is the provider-native record, kept for full-fidelity capture.
	Raw json.RawMessage `json:"-"`
}

// Content returns the generated text, or "" when the response carried none.
func (r *Response) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// Complete sends a non-streaming completion request.
func (c *Client) Complete(ctx context.Context, apiKey string, req Request) (*Response, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling routing API")

	httpReq, err := c.newHTTPRequest(ctx, apiKey, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &RequestFailedError{StatusCode: resp.StatusCode, Detail: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var routerResp Response
	if decodeErr := json.Unmarshal(body, &routerResp); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	routerResp.Raw = json.RawMessage(body)

	logger.Debug("routing API call succeeded",
		observability.Int("prompt_tokens", routerResp.Usage.PromptTokens),
		observability.Int("completion_tokens", routerResp.Usage.CompletionTokens),
	)

	return &routerResp, nil
}

// Stream sends a streaming completion request. Events arrive on the
// returned channel in wire order; the channel closes on [DONE], stream
// end, or a terminal read error carried as the final event.
func (c *Client) Stream(ctx context.Context, apiKey string, req Request) (<-chan Event, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling routing API with streaming")

	req.Stream = true

	httpReq, err := c.newHTTPRequest(ctx, apiKey, req)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	//nolint:bodyclose // Response body is closed in the decode goroutine
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, &RequestFailedError{StatusCode: resp.StatusCode, Detail: string(body)}
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		defer resp.Body.Close()
		decodeStream(resp.Body, events)
	}()

	return events, nil
}

// newHTTPRequest builds the POST with the payload and the full header
// set: bearer auth, content type, and the two fixed identification
// headers the routing service expects. An empty credential is passed
// through and will surface as an upstream authorization error.
func (c *Client) newHTTPRequest(ctx context.Context, apiKey string, req Request) (*http.Request, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	httpReq.Header.Set("HTTP-Referer", refererValue)
	httpReq.Header.Set("X-Title", titleValue)

	return httpReq, nil
}
