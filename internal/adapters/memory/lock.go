package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hireloop/hireloop/internal/workflow"
)

// Locker implements workflow.DistributedLocker with in-process mutexes.
// It serializes invocations within a single instance only; multi-replica
// deployments use the Redis locker.
type Locker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocker creates an in-process locker.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]struct{})}
}

// Lock polls until the key is free or ctx is done. The ttl is ignored:
// an in-process holder cannot crash without taking the process with it.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (workflow.UnlockFunc, error) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.tryAcquire(key) {
			return func(ctx context.Context) error {
				l.mu.Lock()
				delete(l.held, key)
				l.mu.Unlock()
				return nil
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Locker) tryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return false
	}
	l.held[key] = struct{}{}
	return true
}
