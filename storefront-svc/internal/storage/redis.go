package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"zestify-storefront/storefront-svc/internal/domain"
)

var (
	ErrCacheMiss = errors.New("cache miss")
	// ErrStaleCart means a newer cart version is already stored.
	ErrStaleCart = errors.New("stored cart is newer")
)

// saveCartScript writes the cart only when its version is not older than the
// stored one. KEYS: cart, version. ARGV: payload, version, ttl in ms.
var saveCartScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current > tonumber(ARGV[2]) then
	return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[1])
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// SessionStore keeps per-session state in Redis so a session survives a
// storefront-svc restart.
type SessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{Client: client, TTL: ttl}
}

func cartKey(sessionID string) string        { return "session:" + sessionID + ":cart" }
func cartVersionKey(sessionID string) string { return "session:" + sessionID + ":cart:version" }
func authKey(sessionID string) string        { return "session:" + sessionID + ":auth" }
func locationKey(sessionID string) string    { return "session:" + sessionID + ":location" }

func OrderStatusKey(orderID string) string {
	return "order:" + orderID + ":status"
}

// SaveCart stores snap unless a newer version is already there, in which case
// it returns ErrStaleCart and leaves the stored cart alone.
func (s *SessionStore) SaveCart(ctx context.Context, sessionID string, snap domain.CartSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	keys := []string{cartKey(sessionID), cartVersionKey(sessionID)}
	written, err := saveCartScript.Run(ctx, s.Client, keys, payload, snap.Version, s.TTL.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis save cart failed: %w", err)
	}
	if written == 0 {
		return ErrStaleCart
	}
	return nil
}

func (s *SessionStore) LoadCart(ctx context.Context, sessionID string) (domain.CartSnapshot, error) {
	var snap domain.CartSnapshot
	err := s.getJSON(ctx, cartKey(sessionID), &snap)
	return snap, err
}

func (s *SessionStore) SaveAuth(ctx context.Context, sessionID string, auth domain.AuthState) error {
	return s.setJSON(ctx, authKey(sessionID), auth)
}

func (s *SessionStore) LoadAuth(ctx context.Context, sessionID string) (domain.AuthState, error) {
	var auth domain.AuthState
	err := s.getJSON(ctx, authKey(sessionID), &auth)
	return auth, err
}

func (s *SessionStore) SaveLocation(ctx context.Context, sessionID string, loc domain.Location) error {
	return s.setJSON(ctx, locationKey(sessionID), loc)
}

func (s *SessionStore) LoadLocation(ctx context.Context, sessionID string) (domain.Location, error) {
	var loc domain.Location
	err := s.getJSON(ctx, locationKey(sessionID), &loc)
	return loc, err
}

// ClearSession drops the cart and auth state. The last location is kept.
// Clearing the version lets the next cart start over.
func (s *SessionStore) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.Client.Del(ctx, cartKey(sessionID), cartVersionKey(sessionID), authKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Exists reports whether any state was stored for the session.
func (s *SessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.Client.Exists(ctx, cartKey(sessionID), authKey(sessionID), locationKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists failed: %w", err)
	}
	return n > 0, nil
}

// OrderStatus reads the live status written by tracking-svc.
func (s *SessionStore) OrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error) {
	fields, err := s.Client.HGetAll(ctx, OrderStatusKey(orderID)).Result()
	if err != nil {
		return domain.OrderStatus{}, fmt.Errorf("redis hgetall failed: %w", err)
	}
	if len(fields) == 0 || fields["status"] == "" {
		return domain.OrderStatus{}, ErrCacheMiss
	}

	status := domain.OrderStatus{
		OrderID: orderID,
		Status:  fields["status"],
		ETA:     fields["eta"],
		Source:  "tracking",
	}
	if ts, err := strconv.ParseInt(fields["updated_at"], 10, 64); err == nil {
		status.UpdatedAt = time.Unix(ts, 0).UTC()
	}
	return status, nil
}

func (s *SessionStore) setJSON(ctx context.Context, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s failed: %w", key, err)
	}
	if err := s.Client.Set(ctx, key, payload, s.TTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *SessionStore) getJSON(ctx context.Context, key string, v interface{}) error {
	data, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get failed: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s failed: %w", key, err)
	}
	return nil
}
