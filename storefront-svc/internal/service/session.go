package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zestify-storefront/storefront-svc/internal/addons"
	"zestify-storefront/storefront-svc/internal/cart"
	"zestify-storefront/storefront-svc/internal/domain"
	"zestify-storefront/storefront-svc/internal/storage"
)

// Session is the explicit per-visitor state: cart, addon flow, auth and last
// known location.
type Session struct {
	ID   string
	Cart *cart.Store
	Flow *addons.Flow

	mu       sync.RWMutex
	auth     domain.AuthState
	location *domain.Location

	checkout sync.Mutex
	lastSeen atomic.Int64
}

func NewSession(id string, source addons.Source) *Session {
	sess := &Session{ID: id, Cart: cart.NewStore(), Flow: addons.NewFlow(source)}
	sess.touch(time.Now())
	return sess
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// claimCheckout takes the session's single checkout slot. The caller must run
// the returned release func when done.
func (s *Session) claimCheckout() (func(), error) {
	if !s.checkout.TryLock() {
		return nil, domain.ErrCheckoutInProgress
	}
	return s.checkout.Unlock, nil
}

func (s *Session) Auth() domain.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

func (s *Session) Token() string {
	return s.Auth().Token
}

func (s *Session) SetAuth(auth domain.AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

func (s *Session) Location() (domain.Location, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location == nil {
		return domain.Location{}, false
	}
	return *s.location, true
}

func (s *Session) SetLocation(loc domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &loc
}

// SessionManager hands out sessions by id. Unknown ids are restored from the
// repository when it holds state for them; anything else gets a fresh id.
// Live sessions are a cache over the repository and idle ones are evicted.
type SessionManager struct {
	repo   SessionRepository
	source addons.Source
	logger zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	onEvict  func(sessionID string)
}

func NewSessionManager(repo SessionRepository, source addons.Source, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		repo:     repo,
		source:   source,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

func (m *SessionManager) Get(ctx context.Context, id string) (*Session, error) {
	if id != "" {
		m.mu.RLock()
		sess, ok := m.sessions[id]
		m.mu.RUnlock()
		if ok {
			sess.touch(time.Now())
			return sess, nil
		}
	}

	var sess *Session
	if _, err := uuid.Parse(id); err == nil && m.repo != nil {
		exists, err := m.repo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			sess = m.restore(ctx, id)
		}
	}
	if sess == nil {
		sess = NewSession(uuid.NewString(), m.source)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[sess.ID]; ok {
		existing.touch(time.Now())
		return existing, nil
	}
	m.sessions[sess.ID] = sess
	return sess, nil
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// OnEvict registers fn to run for every session dropped by EvictIdle.
func (m *SessionManager) OnEvict(fn func(sessionID string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

// EvictIdle drops sessions not seen for maxIdle and returns how many went.
// Persisted state stays in the repository, so an evicted session comes back
// on its next request.
func (m *SessionManager) EvictIdle(now time.Time, maxIdle time.Duration) int {
	m.mu.Lock()
	var evicted []string
	for id, sess := range m.sessions {
		if sess.idleSince(now) >= maxIdle {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	onEvict := m.onEvict
	m.mu.Unlock()

	if onEvict != nil {
		for _, id := range evicted {
			onEvict(id)
		}
	}
	return len(evicted)
}

// Sweep evicts idle sessions until ctx is done. A non-positive maxIdle keeps
// every session.
func (m *SessionManager) Sweep(ctx context.Context, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.EvictIdle(now, maxIdle); n > 0 {
				m.logger.Debug().Int("evicted", n).Int("live", m.Len()).Msg("idle sessions evicted")
			}
		}
	}
}

func (m *SessionManager) PersistCart(ctx context.Context, sess *Session, snap domain.CartSnapshot) {
	if m.repo == nil {
		return
	}
	err := m.repo.SaveCart(ctx, sess.ID, snap)
	switch {
	case errors.Is(err, storage.ErrStaleCart):
		m.logger.Debug().Str("session_id", sess.ID).Uint64("version", snap.Version).Msg("newer cart already persisted")
	case err != nil:
		m.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to persist cart")
	}
}

func (m *SessionManager) PersistAuth(ctx context.Context, sess *Session) {
	if m.repo == nil {
		return
	}
	if err := m.repo.SaveAuth(ctx, sess.ID, sess.Auth()); err != nil {
		m.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to persist auth")
	}
}

func (m *SessionManager) PersistLocation(ctx context.Context, sess *Session) error {
	loc, ok := sess.Location()
	if m.repo == nil || !ok {
		return nil
	}
	return m.repo.SaveLocation(ctx, sess.ID, loc)
}

func (m *SessionManager) ClearPersisted(ctx context.Context, sess *Session) {
	if m.repo == nil {
		return
	}
	if err := m.repo.ClearSession(ctx, sess.ID); err != nil {
		m.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("failed to clear session state")
	}
}

func (m *SessionManager) restore(ctx context.Context, id string) *Session {
	sess := NewSession(id, m.source)
	logger := m.logger.With().Str("session_id", id).Logger()

	if snap, err := m.repo.LoadCart(ctx, id); err == nil {
		if err := sess.Cart.Restore(snap); err != nil {
			logger.Warn().Err(err).Msg("discarding persisted cart")
		}
	} else if !errors.Is(err, storage.ErrCacheMiss) {
		logger.Warn().Err(err).Msg("failed to load persisted cart")
	}

	if auth, err := m.repo.LoadAuth(ctx, id); err == nil {
		sess.SetAuth(auth)
	} else if !errors.Is(err, storage.ErrCacheMiss) {
		logger.Warn().Err(err).Msg("failed to load persisted auth")
	}

	if loc, err := m.repo.LoadLocation(ctx, id); err == nil {
		sess.SetLocation(loc)
	} else if !errors.Is(err, storage.ErrCacheMiss) {
		logger.Warn().Err(err).Msg("failed to load persisted location")
	}

	logger.Debug().Msg("session restored")
	return sess
}
