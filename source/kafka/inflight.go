package kafka

import (
	"context"
	"sync"
)

// inflightLimiter bounds how many records may be emitted but not yet
// acked or failed. Acquire blocks until a slot frees or the context is
// done; Release is called from ack/fail paths on other goroutines.
type inflightLimiter struct {
	capacity int64

	mu     sync.Mutex
	used   int64
	cond   *sync.Cond
	closed bool
}

func newInflightLimiter(capacity int64) *inflightLimiter {
	l := &inflightLimiter{capacity: capacity}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *inflightLimiter) Acquire(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		l.cond.Broadcast()
	})
	defer stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	for l.used >= l.capacity && !l.closed && ctx.Err() == nil {
		l.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.closed {
		return context.Canceled
	}
	l.used++
	return nil
}

func (l *inflightLimiter) Release() {
	l.mu.Lock()
	if l.used > 0 {
		l.used--
	}
	l.mu.Unlock()
	l.cond.Broadcast()
}

func (l *inflightLimiter) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cond.Broadcast()
}

func (l *inflightLimiter) InFlight() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.used
}
