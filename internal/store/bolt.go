package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/mindfulu/companion/internal/model"
	"github.com/mindfulu/companion/pkg/logger"
	"github.com/mindfulu/companion/pkg/metrics"
)

const (
	bucketState      = "chat_state"
	keyConversations = "conversations"
	keyCurrentChat   = "current_chat"
)

// BoltStore persists the conversation collection and the current pointer
// in a single bbolt bucket. The collection is kept as one JSON document so
// writes replace it atomically, mirroring the two logical keys of the
// storage contract. A nil BoltStore is a valid no-op store.
type BoltStore struct {
	db     *bolt.DB
	logger *logger.Logger
}

// Open opens (or creates) the store file at path.
func Open(path string, log *logger.Logger) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db, logger: log}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() {
	if s == nil || s.db == nil {
		return
	}
	s.db.Close()
}

// LoadAll reads and decodes the stored collection. Malformed data yields
// an empty collection, never an error.
func (s *BoltStore) LoadAll() []model.Conversation {
	if s == nil || s.db == nil {
		return nil
	}
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(bucketState)); b != nil {
			if v := b.Get([]byte(keyConversations)); v != nil {
				raw = append([]byte(nil), v...)
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("load", err)
	if err != nil {
		s.logger.Warn("store load failed", zap.Error(err))
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var convs []model.Conversation
	if err := json.Unmarshal(raw, &convs); err != nil {
		// Corrupt history is treated as empty state, not a user-facing error.
		s.logger.Warn("discarding undecodable conversation history", zap.Error(err))
		return nil
	}
	return convs
}

// Save upserts the conversation and writes the trimmed collection back.
func (s *BoltStore) Save(conv *model.Conversation) {
	if s == nil || s.db == nil || conv == nil {
		return
	}
	convs := upsert(s.LoadAll(), *conv.Clone())
	data, err := json.Marshal(convs)
	if err == nil {
		err = s.putState(keyConversations, data)
	}
	metrics.RecordStoreOperation("save", err)
	if err != nil {
		s.logger.Error("failed to save conversation", zap.String("conversation_id", conv.ID), zap.Error(err))
	}
}

// Delete removes the matching conversation from the stored collection.
func (s *BoltStore) Delete(id string) {
	if s == nil || s.db == nil {
		return
	}
	convs := s.LoadAll()
	kept := convs[:0]
	for _, c := range convs {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	data, err := json.Marshal(kept)
	if err == nil {
		err = s.putState(keyConversations, data)
	}
	metrics.RecordStoreOperation("delete", err)
	if err != nil {
		s.logger.Error("failed to delete conversation", zap.String("conversation_id", id), zap.Error(err))
	}
}

// CurrentID returns the persisted current-conversation pointer.
func (s *BoltStore) CurrentID() string {
	if s == nil || s.db == nil {
		return ""
	}
	var id string
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(bucketState)); b != nil {
			id = string(b.Get([]byte(keyCurrentChat)))
		}
		return nil
	})
	metrics.RecordStoreOperation("current_id", err)
	if err != nil {
		s.logger.Warn("failed to read current pointer", zap.Error(err))
		return ""
	}
	return id
}

// SetCurrentID persists the pointer; an empty id clears it.
func (s *BoltStore) SetCurrentID(id string) {
	if s == nil || s.db == nil {
		return
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		if id == "" {
			return b.Delete([]byte(keyCurrentChat))
		}
		return b.Put([]byte(keyCurrentChat), []byte(id))
	})
	metrics.RecordStoreOperation("set_current_id", err)
	if err != nil {
		s.logger.Error("failed to write current pointer", zap.Error(err))
	}
}

// ClearAll removes all stored state.
func (s *BoltStore) ClearAll() {
	if s == nil || s.db == nil {
		return
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketState))
		if err := b.Delete([]byte(keyConversations)); err != nil {
			return err
		}
		return b.Delete([]byte(keyCurrentChat))
	})
	metrics.RecordStoreOperation("clear_all", err)
	if err != nil {
		s.logger.Error("failed to clear store", zap.Error(err))
	}
}

func (s *BoltStore) putState(key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketState)).Put([]byte(key), data)
	})
}
