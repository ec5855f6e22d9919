package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPClient is the client-side gateway to the chat endpoint. It speaks
// the endpoint's wire contract: POST {messages} in, {message} or {error}
// out. Model, system prompt and token budget are fixed server-side, so the
// corresponding request fields are ignored here.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
}

type chatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// NewHTTPClient creates a gateway for the chat endpoint at the given URL.
func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// Name returns the provider name.
func (c *HTTPClient) Name() string {
	return "chat-endpoint"
}

// Complete performs one round trip against the chat endpoint.
func (c *HTTPClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	body, err := json.Marshal(chatRequest{Messages: req.Messages})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding request: %v", ErrUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: endpoint returned %d: %s", classifyStatus(resp.StatusCode), resp.StatusCode, decoded.Error)
	}

	return &CompletionResponse{
		Text:      decoded.Message,
		LatencyMs: time.Since(start).Milliseconds(),
	}, nil
}
