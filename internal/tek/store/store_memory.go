// Package store persists sent key metadata.
package store

import (
	"context"
	"sort"
	"sync"

	"exposure/internal/tek/models"
)

type keyID struct {
	interval    int64
	messageType models.MessageType
}

// InMemoryStore keeps sent keys in a map; used by tests and the simulated device.
type InMemoryStore struct {
	mu   sync.Mutex
	keys map[keyID]models.SentKey
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{keys: make(map[keyID]models.SentKey)}
}

// Add upserts keys by interval number and message type.
func (s *InMemoryStore) Add(_ context.Context, keys ...models.SentKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		k.CreatedAt = k.CreatedAt.UTC()
		s.keys[keyID{k.RollingStartIntervalNumber, k.MessageType}] = k
	}
	return nil
}

func (s *InMemoryStore) ListByMessageType(_ context.Context, mt models.MessageType) ([]models.SentKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SentKey, 0)
	for id, k := range s.keys {
		if id.messageType == mt {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RollingStartIntervalNumber < out[j].RollingStartIntervalNumber
	})
	return out, nil
}

// RemoveOlderThan deletes keys of mt whose interval starts before interval.
func (s *InMemoryStore) RemoveOlderThan(_ context.Context, mt models.MessageType, interval int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id := range s.keys {
		if id.messageType == mt && id.interval < interval {
			delete(s.keys, id)
			n++
		}
	}
	return n, nil
}
