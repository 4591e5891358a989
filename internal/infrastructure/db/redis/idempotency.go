package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

const (
	idempotencyTTL = 24 * time.Hour
	reservationTTL = 30 * time.Second
	pendingMarker  = "pending"
)

// IdempotencyStore maps a client-supplied Idempotency-Key to the report it created.
// Key format: idem:report:<owner_id>:<key>
//
// A key moves from pendingMarker (Reserve) to the report id (Remember). An
// abandoned reservation expires after reservationTTL.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Reserve claims the key with a pending marker.
func (s *IdempotencyStore) Reserve(ctx context.Context, ownerID, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(ownerID, key), pendingMarker, reservationTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

// Lookup reports the id of the report previously created with this key.
// A key that is still reserved yields ports.ErrIdempotencyPending.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if id == pendingMarker {
		return "", false, ports.ErrIdempotencyPending
	}
	return id, true, nil
}

// Remember records reportID for this key, replacing the reservation.
// The mapping expires after idempotencyTTL.
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID, key, reportID string) error {
	return s.client.Set(ctx, s.key(ownerID, key), reportID, idempotencyTTL).Err()
}

// Release deletes the key only while it still holds the pending marker.
func (s *IdempotencyStore) Release(ctx context.Context, ownerID, key string) error {
	return releaseScript.Run(ctx, s.client, []string{s.key(ownerID, key)}, pendingMarker).Err()
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:report:%s:%s", ownerID, key)
}
