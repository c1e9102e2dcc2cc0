package workflow

import (
	"context"
	"time"
)

// UnlockFunc releases a held distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes graph-advancing calls per job across
// process replicas.
//
// Lock blocks until the lease is acquired or ctx is done; the caller
// bounds the wait with a context deadline. The lease ttl is a safety
// valve so a crashed holder cannot deadlock the job. Implementations
// must release only a lock they still own (compare-and-delete) and must
// return ErrLockUnavailable (wrapped) when the backend itself is
// unreachable, so callers can degrade open instead of failing closed.
type DistributedLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
