// Package llm provides the completion gateway: provider client
// implementations and the typed request/response contract.
package llm

import (
	"context"
)

// ChatMessage is a single history entry in the provider's input shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents one completion request. History is already
// bounded to the context window by the caller.
type CompletionRequest struct {
	Model     string
	System    string
	Messages  []ChatMessage
	MaxTokens int
}

// CompletionResponse is the typed result of a completion. Text is the
// first textual content block of the provider response, or "" when the
// response carried none.
type CompletionResponse struct {
	Text       string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for completion providers. Implementations
// perform exactly one network round trip per call: no retry, no streaming.
type Client interface {
	// Complete sends a completion request and returns the typed response.
	// Failures are classified onto the package's sentinel errors.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	default:
		return NewAnthropicClient(apiKey)
	}
}
