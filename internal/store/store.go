// Package store provides durable, client-local persistence for
// conversations and the current-conversation pointer.
package store

import "github.com/mindfulu/companion/internal/model"

// MaxConversations caps the stored collection; the oldest entries beyond
// the cap are dropped silently on write.
const MaxConversations = 50

// Store is the persistence contract. All operations are synchronous and
// fail soft: a load after a deserialization failure yields an empty
// collection, and every operation on an unavailable medium is a silent
// no-op. Nothing here returns an error to the caller; failures are logged
// and counted for operational visibility instead.
type Store interface {
	// LoadAll returns all stored conversations, most recently written first.
	LoadAll() []model.Conversation

	// Save upserts a conversation by id: replaces in place if present,
	// inserts at the front otherwise, then trims the collection to
	// MaxConversations entries in a single write.
	Save(conv *model.Conversation)

	// Delete removes the matching conversation; no-op if absent.
	Delete(id string)

	// CurrentID returns the persisted current-conversation pointer,
	// or "" if unset.
	CurrentID() string

	// SetCurrentID persists the pointer; "" clears it.
	SetCurrentID(id string)

	// ClearAll removes all stored state.
	ClearAll()
}

// upsert merges conv into convs, replacing by id or prepending, and trims
// to the capacity cap. Shared by the bolt and memory implementations.
func upsert(convs []model.Conversation, conv model.Conversation) []model.Conversation {
	replaced := false
	for i := range convs {
		if convs[i].ID == conv.ID {
			convs[i] = conv
			replaced = true
			break
		}
	}
	if !replaced {
		convs = append([]model.Conversation{conv}, convs...)
	}
	if len(convs) > MaxConversations {
		convs = convs[:MaxConversations]
	}
	return convs
}
