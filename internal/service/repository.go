// Package service provides the conversation-state core: the repository
// that owns in-memory conversation state and the orchestrator that drives
// each turn.
package service

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mindfulu/companion/internal/model"
	"github.com/mindfulu/companion/internal/store"
	"github.com/mindfulu/companion/pkg/logger"
	"github.com/mindfulu/companion/pkg/metrics"
)

// ErrNotFound is returned when a conversation id does not resolve.
var ErrNotFound = errors.New("conversation not found")

// Repository holds the authoritative in-memory conversation list for a
// session and is the sole writer to the persistence store. After every
// mutating call the in-memory list and the store converge.
type Repository struct {
	store  store.Store
	logger *logger.Logger

	mu            sync.RWMutex
	conversations []*model.Conversation
	current       *model.Conversation
	initialized   bool
}

// NewRepository creates a repository backed by the given store.
func NewRepository(st store.Store, log *logger.Logger) *Repository {
	return &Repository{
		store:  st,
		logger: log,
	}
}

// Initialize hydrates state from the store: the full collection plus the
// current-conversation pointer, resolved against it. It runs at most once;
// the initialized flag transition is one-way.
func (r *Repository) Initialize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return
	}

	for _, c := range r.store.LoadAll() {
		conv := c
		r.conversations = append(r.conversations, &conv)
	}

	if id := r.store.CurrentID(); id != "" {
		for _, c := range r.conversations {
			if c.ID == id {
				r.current = c
				break
			}
		}
	}

	r.initialized = true
}

// Initialized reports whether hydration has completed.
func (r *Repository) Initialized() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.initialized
}

// Create produces a new empty conversation and makes it current. The
// pointer is persisted immediately; the conversation body is not written
// to the store until its first message lands.
func (r *Repository) Create() *model.Conversation {
	conv := model.NewConversation()

	r.mu.Lock()
	r.conversations = append([]*model.Conversation{conv}, r.conversations...)
	r.current = conv
	r.mu.Unlock()

	r.store.SetCurrentID(conv.ID)
	metrics.ConversationsTotal.Inc()
	r.logger.Info("conversation created", zap.String("conversation_id", conv.ID))

	return conv.Clone()
}

// Select makes the matching conversation current and persists the pointer.
func (r *Repository) Select(id string) (*model.Conversation, error) {
	r.mu.Lock()
	var found *model.Conversation
	for _, c := range r.conversations {
		if c.ID == id {
			found = c
			break
		}
	}
	if found == nil {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	r.current = found
	r.mu.Unlock()

	r.store.SetCurrentID(id)
	return found.Clone(), nil
}

// Current returns a copy of the current conversation, or nil.
func (r *Repository) Current() *model.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return nil
	}
	return r.current.Clone()
}

// ClearCurrent unsets the current conversation and clears the pointer.
func (r *Repository) ClearCurrent() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()

	r.store.SetCurrentID("")
}

// Get returns a copy of the conversation with the given id.
func (r *Repository) Get(id string) (*model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.conversations {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// List returns copies of all conversations, most recently created or
// written first.
func (r *Repository) List() []model.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Conversation, 0, len(r.conversations))
	for _, c := range r.conversations {
		out = append(out, *c.Clone())
	}
	return out
}

// Upsert merges the conversation into the in-memory list (replace by id,
// else prepend) and delegates the durable write to the store.
func (r *Repository) Upsert(conv *model.Conversation) {
	if conv == nil {
		return
	}
	copied := conv.Clone()

	r.mu.Lock()
	replaced := false
	for i, c := range r.conversations {
		if c.ID == copied.ID {
			r.conversations[i] = copied
			replaced = true
			break
		}
	}
	if !replaced {
		r.conversations = append([]*model.Conversation{copied}, r.conversations...)
	}
	if r.current != nil && r.current.ID == copied.ID {
		r.current = copied
	}
	r.mu.Unlock()

	r.store.Save(copied)
}

// Remove deletes the conversation from memory and the store. Removing the
// current conversation clears the selection and the persisted pointer.
func (r *Repository) Remove(id string) {
	r.mu.Lock()
	kept := r.conversations[:0]
	for _, c := range r.conversations {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	r.conversations = kept
	wasCurrent := r.current != nil && r.current.ID == id
	if wasCurrent {
		r.current = nil
	}
	r.mu.Unlock()

	r.store.Delete(id)
	if wasCurrent {
		r.store.SetCurrentID("")
	}
}
