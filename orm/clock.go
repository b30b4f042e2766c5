package orm

import (
	"context"
	"time"
)

const (
	createdAtColumn = "created_at"
	updatedAtColumn = "updated_at"
)

// Clock provides the current time. Implementations can return fixed
// times for deterministic testing.
type Clock interface {
	Now() time.Time
}

type clockKey struct{}

// WithClock returns a child context carrying the given Clock.
// Insert and Update use it instead of time.Now() when they fill
// created_at and updated_at columns.
func WithClock(ctx context.Context, c Clock) context.Context {
	return context.WithValue(ctx, clockKey{}, c)
}

// now returns the current time from the Clock in ctx, or time.Now()
// if no Clock is present.
func now(ctx context.Context) time.Time {
	if c, ok := ctx.Value(clockKey{}).(Clock); ok {
		return c.Now()
	}
	return time.Now()
}

// stampCreated fills created_at and updated_at, where the model has them
// and they are still nil.
func (a *Attributes) stampCreated(ctx context.Context) {
	var t time.Time
	for _, col := range []string{createdAtColumn, updatedAtColumn} {
		i, ok := a.layout.index[col]
		if !ok || a.values[i] != nil {
			continue
		}
		if t.IsZero() {
			t = now(ctx)
		}
		a.values[i] = t
	}
}

// stampUpdated sets updated_at, if the model has it.
func (a *Attributes) stampUpdated(ctx context.Context) {
	if i, ok := a.layout.index[updatedAtColumn]; ok {
		a.values[i] = now(ctx)
	}
}
