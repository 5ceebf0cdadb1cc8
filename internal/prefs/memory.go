package prefs

import (
	"context"
	"sync"
)

type memoryBackend struct {
	mu     sync.RWMutex
	values map[Key]string
}

// NewMemory returns preferences held in process memory.
func NewMemory() *Preferences {
	return newPreferences(&memoryBackend{values: make(map[Key]string)})
}

func (b *memoryBackend) load(_ context.Context, key Key) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[key]
	return v, ok, nil
}

func (b *memoryBackend) save(_ context.Context, key Key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[key] = value
	return nil
}

func (b *memoryBackend) remove(_ context.Context, key Key) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, key)
	return nil
}
