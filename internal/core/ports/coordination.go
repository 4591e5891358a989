package ports

import (
	"context"
	"errors"
)

// ErrLockHeld is returned by OwnerLock.Acquire when another request holds the lock.
var ErrLockHeld = errors.New("lock held")

// ErrIdempotencyPending is returned by IdempotencyStore.Lookup while the
// request that reserved the key has not stored its report yet.
var ErrIdempotencyPending = errors.New("idempotency key pending")

// OwnerLock serialises read-then-write sequences for one owner across instances.
type OwnerLock interface {
	// Acquire returns a release func on success, or ErrLockHeld.
	Acquire(ctx context.Context, ownerID string) (release func(), err error)
}

// IdempotencyStore remembers which report an Idempotency-Key produced.
type IdempotencyStore interface {
	// Reserve claims the key ahead of the insert. It reports false when the
	// key is already reserved or remembered.
	Reserve(ctx context.Context, ownerID, key string) (reserved bool, err error)
	Lookup(ctx context.Context, ownerID, key string) (reportID string, found bool, err error)
	Remember(ctx context.Context, ownerID, key, reportID string) error
	// Release drops a reservation that never produced a report.
	Release(ctx context.Context, ownerID, key string) error
}
