package model

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single conversation message. Messages are immutable
// once created: history only ever grows by appending.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// LLM metadata, set on assistant messages only.
	Model     *string `json:"model,omitempty"`
	TokensIn  *int    `json:"tokens_in,omitempty"`
	TokensOut *int    `json:"tokens_out,omitempty"`
	LatencyMs *int64  `json:"latency_ms,omitempty"`
}

// NewUserMessage creates a user message with a fresh id and timestamp.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a fresh id and timestamp.
func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}
