package service

import (
	"context"
	"sync"

	"exposure/pkg/platform/signal"
)

// calls tracks start and stop calls that outlive the phase that issued them.
type calls struct {
	mu      sync.Mutex
	issued  uint64
	results map[uint64]error
	changes signal.Broadcaster
	wg      sync.WaitGroup
}

// issue runs fn in the background and returns its call id.
func (c *calls) issue(ctx context.Context, fn func(ctx context.Context) error) uint64 {
	c.mu.Lock()
	c.issued++
	id := c.issued
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := fn(ctx)
		c.mu.Lock()
		if c.results == nil {
			c.results = make(map[uint64]error)
		}
		c.results[id] = err
		c.mu.Unlock()
		c.changes.Notify()
	}()
	return id
}

// take returns the outcome of call id once it has completed. Older results are dropped.
func (c *calls) take(id uint64) (done bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err, done = c.results[id]
	if !done {
		return false, nil
	}
	for k := range c.results {
		if k <= id {
			delete(c.results, k)
		}
	}
	return true, err
}

func (c *calls) subscribe() (<-chan struct{}, func()) {
	return c.changes.Subscribe()
}

func (c *calls) wait() {
	c.wg.Wait()
}
