package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zestify-storefront/tracking-svc/internal/domain"
)

func setupStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, 0), mr
}

func TestStore_SaveStatus(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveStatus(ctx, domain.StatusMessage{OrderID: "o1", Status: "preparing", ETA: "25 mins", Timestamp: ts}))

	assert.Equal(t, "preparing", mr.HGet("order:o1:status", "status"))
	assert.Equal(t, "25 mins", mr.HGet("order:o1:status", "eta"))
	assert.Equal(t, "1772366400", mr.HGet("order:o1:status", "updated_at"))
	assert.Equal(t, DefaultStatusTTL, mr.TTL("order:o1:status"))
}

func TestStore_SaveStatusDropsOlderEvents(t *testing.T) {
	store, mr := setupStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveStatus(ctx, domain.StatusMessage{OrderID: "o1", Status: "delivered", Timestamp: now}))
	require.NoError(t, store.SaveStatus(ctx, domain.StatusMessage{OrderID: "o1", Status: "preparing", Timestamp: now.Add(-time.Minute)}))
	assert.Equal(t, "delivered", mr.HGet("order:o1:status", "status"))

	require.NoError(t, store.SaveStatus(ctx, domain.StatusMessage{OrderID: "o1", Status: "closed", Timestamp: now}))
	assert.Equal(t, "closed", mr.HGet("order:o1:status", "status"))
}

func TestStore_SaveStatusRedisDown(t *testing.T) {
	store, mr := setupStore(t)
	mr.Close()

	err := store.SaveStatus(context.Background(), domain.StatusMessage{OrderID: "o1", Status: "preparing"})
	assert.Error(t, err)
}
