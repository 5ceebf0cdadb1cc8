package service

import (
	"context"
	"sync"
	"sync/atomic"

	"exposure/internal/registration/metrics"
	"exposure/internal/registration/models"
)

type transition struct {
	gen  uint64
	next models.Phase
}

type subscription func() (<-chan struct{}, func())

// scope owns the goroutines and subscriptions of one phase.
type scope struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	gen     uint64
	out     chan<- transition
	moved   atomic.Bool
	metrics *metrics.Metrics
}

func newScope(parent context.Context, gen uint64, out chan<- transition, m *metrics.Metrics) *scope {
	ctx, cancel := context.WithCancel(parent)
	return &scope{ctx: ctx, cancel: cancel, gen: gen, out: out, metrics: m}
}

func (s *scope) goFn(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// moveTo requests the transition to next. Only the first call per scope counts.
func (s *scope) moveTo(next models.Phase) {
	if !s.moved.CompareAndSwap(false, true) {
		s.metrics.IncrementDuplicateMove()
		return
	}
	select {
	case s.out <- transition{gen: s.gen, next: next}:
	case <-s.ctx.Done():
	}
}

// follow evaluates check now and after every signal from subs until it yields a
// phase. Subscriptions are taken before the first evaluation.
func (s *scope) follow(check func(ctx context.Context) (models.Phase, bool), subs ...subscription) {
	wake := make(chan struct{}, 1)
	for _, sub := range subs {
		ch, cancel := sub()
		s.goFn(func(ctx context.Context) {
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					select {
					case wake <- struct{}{}:
					default:
					}
				}
			}
		})
	}
	s.goFn(func(ctx context.Context) {
		for {
			if next, ok := check(ctx); ok {
				s.moveTo(next)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-wake:
			}
		}
	})
}

func (s *scope) close() {
	s.cancel()
	s.wg.Wait()
}
