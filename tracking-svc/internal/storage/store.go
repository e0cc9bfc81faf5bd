package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"zestify-storefront/tracking-svc/internal/domain"
)

const DefaultStatusTTL = 24 * time.Hour

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultStatusTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func StatusKey(orderID string) string {
	return fmt.Sprintf("order:%s:status", orderID)
}

// SaveStatus overwrites the order's status hash and refreshes its expiry.
// An event older than the stored one is dropped.
func (s *Store) SaveStatus(ctx context.Context, msg domain.StatusMessage) error {
	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	key := StatusKey(msg.OrderID)
	stored, err := s.rdb.HGet(ctx, key, "updated_at").Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis hget failed: %w", err)
	}
	if err == nil && stored > ts.Unix() {
		return nil
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			"status":     msg.Status,
			"eta":        msg.ETA,
			"updated_at": ts.Unix(),
		})
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}
