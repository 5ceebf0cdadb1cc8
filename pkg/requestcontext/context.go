// Package requestcontext provides context accessors for operation-scoped values.
//
// Services read values set by whoever started the operation (the scheduler, the
// HTTP surface, a platform broadcast). Tests inject a fixed clock the same way.
//
// Usage in services (read values):
//
//	now := requestcontext.Now(ctx)
//	trigger := requestcontext.Trigger(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	requestTimeKey struct{}
	triggerKey     struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyTrigger     = triggerKey{}
)

// Trigger values describing what started an operation.
const (
	TriggerPeriodic  = "periodic"
	TriggerTimeout   = "timeout"
	TriggerManual    = "manual"
	TriggerBroadcast = "broadcast"
)

// Now returns the operation time stored in the context, or time.Now() when unset.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// Trigger returns what started the operation, or TriggerManual when unset.
func Trigger(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyTrigger).(string); ok && v != "" {
		return v
	}
	return TriggerManual
}

// WithTrigger records what started the operation.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, ContextKeyTrigger, trigger)
}
