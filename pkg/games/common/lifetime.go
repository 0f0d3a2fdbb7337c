// Package common holds plumbing shared by the game controllers.
package common

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx ends, whichever is first.
// It returns ctx.Err() if the wait was cut short.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Lifetime scopes a controller's pending work. Close cancels every context
// derived from it, so delayed work started before Close never lands.
type Lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewLifetime() *Lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return &Lifetime{ctx: ctx, cancel: cancel}
}

// Bind returns a context that ends when either parent or the lifetime ends
func (l *Lifetime) Bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Done reports whether Close has been called
func (l *Lifetime) Done() bool {
	return l.ctx.Err() != nil
}

// Err is the reason work bound to ctx must stop, or nil. It reports Close at
// once, before the bound context has observed the cancellation.
func (l *Lifetime) Err(ctx context.Context) error {
	if l.Done() {
		return context.Canceled
	}
	return ctx.Err()
}

func (l *Lifetime) Close() {
	l.cancel()
}
