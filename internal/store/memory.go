package store

import (
	"sync"

	"github.com/mindfulu/companion/internal/model"
)

// Memory is an in-process Store used in tests and wherever no durable
// medium is available.
type Memory struct {
	mu      sync.Mutex
	convs   []model.Conversation
	current string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) LoadAll() []model.Conversation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Conversation, len(m.convs))
	for i := range m.convs {
		out[i] = *m.convs[i].Clone()
	}
	return out
}

func (m *Memory) Save(conv *model.Conversation) {
	if conv == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs = upsert(m.convs, *conv.Clone())
}

func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.convs[:0]
	for _, c := range m.convs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.convs = kept
}

func (m *Memory) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *Memory) SetCurrentID(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = id
}

func (m *Memory) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs = nil
	m.current = ""
}
