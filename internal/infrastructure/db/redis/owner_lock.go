package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

const defaultLockTTL = 10 * time.Second

// releaseScript deletes KEYS[1] only if it still holds ARGV[1]. An expired
// lock re-acquired by another request is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OwnerLock is a per-owner mutual exclusion lock backed by Redis SET NX.
// Key format: lock:attendance:<owner_id>
type OwnerLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOwnerLock creates an OwnerLock. Locks expire after ttl even if never
// released; defaultLockTTL is used when ttl <= 0.
func NewOwnerLock(client *redis.Client, ttl time.Duration) *OwnerLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &OwnerLock{client: client, ttl: ttl}
}

// Acquire takes the lock for ownerID or returns ports.ErrLockHeld.
func (l *OwnerLock) Acquire(ctx context.Context, ownerID string) (func(), error) {
	key := l.key(ownerID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ports.ErrLockHeld
	}

	release := func() {
		// Released on a fresh context: the request context may already be done.
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, nil
}

func (l *OwnerLock) key(ownerID string) string {
	return "lock:attendance:" + ownerID
}
