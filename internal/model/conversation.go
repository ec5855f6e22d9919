// Package model defines data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the placeholder title before the first user message.
const DefaultTitle = "New Conversation"

// TitleMaxLen is the maximum title length derived from the first message.
const TitleMaxLen = 50

// Conversation represents a conversation thread. Message order is
// chronological and significant.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates an empty conversation with a fresh id. A
// conversation with zero messages is valid transient state; it is not
// persisted until its first message lands.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Title:     DefaultTitle,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a message and refreshes UpdatedAt. The first user message
// also sets the title.
func (c *Conversation) Append(msg Message) {
	if len(c.Messages) == 0 && msg.Role == RoleUser {
		c.Title = TruncateTitle(msg.Content)
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// Clone returns a deep copy so callers can hand conversations across
// goroutine or API boundaries without aliasing the message slice.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}

// TruncateTitle derives a title from user text, capped at TitleMaxLen runes.
func TruncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= TitleMaxLen {
		return s
	}
	return string(runes[:TitleMaxLen])
}
