package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/hireloop/hireloop/internal/workflow"
)

// releaseScript deletes the lock key only if this process still owns it,
// so an expired-and-reacquired lock is never released by the old holder.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

const pollInterval = 100 * time.Millisecond

// Locker implements workflow.DistributedLocker using Redis SET NX with
// a lease TTL. Backend outages surface as workflow.ErrLockUnavailable
// so callers can degrade to unlocked execution.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a Redis locker.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{client: client, prefix: prefix}
}

// Lock acquires the lease for key, polling until success or ctx is
// done. The token value is random so release is safe.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (workflow.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	token := uuid.NewString()

	// Fast path: try once before settling into the poll loop.
	acquired, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, translateErr(err)
	}
	if acquired {
		return l.unlockFunc(lockKey, token), nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			acquired, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
			if err != nil {
				return nil, translateErr(err)
			}
			if acquired {
				return l.unlockFunc(lockKey, token), nil
			}
		}
	}
}

func (l *Locker) unlockFunc(lockKey, token string) workflow.UnlockFunc {
	return func(ctx context.Context) error {
		return l.client.Eval(ctx, releaseScript, []string{lockKey}, token).Err()
	}
}

// translateErr maps connection-level failures to ErrLockUnavailable.
// Context errors pass through so wait-ceiling timeouts keep their
// identity.
func translateErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, backend.ErrClosed) {
		return fmt.Errorf("%w: %v", workflow.ErrLockUnavailable, err)
	}
	return fmt.Errorf("redis error acquiring lock: %w", err)
}
