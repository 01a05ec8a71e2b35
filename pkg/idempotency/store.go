package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store records which stock adjustments have already been applied, keyed by
// business identity rather than broker offsets so re-published events are
// deduplicated too.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Key identifies one applied adjustment: one order, one book, one direction.
func Key(orderID, bookID, direction string) string {
	return fmt.Sprintf("stockadj:%s:%s:%s", orderID, bookID, direction)
}

// Seen atomically marks the key and reports whether it was already marked.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// Forget releases a key so a failed adjustment can be retried on redelivery.
func (s *Store) Forget(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
