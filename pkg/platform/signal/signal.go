// Package signal provides a coalescing change broadcaster.
//
// Subscribers receive a value-less notification on a channel with capacity one.
// Several notifications sent before the subscriber drains its channel collapse into
// one, so a subscriber must re-read the state it watches after every receive.
package signal

import "sync"

// Broadcaster fans out change notifications to any number of subscribers.
// The zero value is ready to use.
type Broadcaster struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan struct{}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it and is
// safe to call more than once.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[uint64]chan struct{})
	}
	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Notify wakes every subscriber without blocking.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of live subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
