// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package providers

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a fixed minimum interval between successive calls to one
// external collaborator. It is safe for concurrent use: each Wait reserves
// the next slot under the lock, then sleeps outside it, so concurrent
// workers are serialized at the configured rate without blocking each other
// in the critical section. Per prd010-discovery R5.1.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewLimiter returns a limiter with the given minimum call interval.
// A non-positive interval disables limiting.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the caller may proceed, or until the context is done,
// in which case it returns ctx.Err() without consuming a slot's worth of
// extra delay for later callers.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	at := l.next
	if at.Before(now) {
		at = now
	}
	l.next = at.Add(l.interval)
	l.mu.Unlock()

	wait := time.Until(at)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
