package cart

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"zestify-storefront/storefront-svc/internal/domain"
)

type DraftSink interface {
	PushDraft(ctx context.Context, draft domain.DraftCart) error
}

// Syncer pushes session carts to the order service in the background. Pending
// drafts are coalesced per session and only the newest version is sent, so a
// slow push never reorders writes. Failures are logged; the local cart stays
// authoritative until checkout.
type Syncer struct {
	sink    DraftSink
	logger  zerolog.Logger
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]domain.CartSnapshot
	sent    map[string]uint64
	wake    chan struct{}
}

func NewSyncer(sink DraftSink, logger zerolog.Logger, timeout time.Duration) *Syncer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Syncer{
		sink:    sink,
		logger:  logger,
		timeout: timeout,
		pending: make(map[string]domain.CartSnapshot),
		sent:    make(map[string]uint64),
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue records the latest snapshot for a session. It never blocks.
func (s *Syncer) Enqueue(sessionID string, snap domain.CartSnapshot) {
	if s == nil || s.sink == nil {
		return
	}

	s.mu.Lock()
	if cur, ok := s.pending[sessionID]; ok && cur.Version >= snap.Version {
		s.mu.Unlock()
		return
	}
	if snap.Version <= s.sent[sessionID] && snap.Version != 0 {
		s.mu.Unlock()
		return
	}
	s.pending[sessionID] = snap
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Forget drops what the syncer remembers about a session that is gone. A draft
// still pending for it is pushed as usual.
func (s *Syncer) Forget(sessionID string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sent, sessionID)
}

// Tracked reports how many sessions the syncer holds state for.
func (s *Syncer) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *Syncer) Run(ctx context.Context) {
	s.logger.Info().Msg("draft cart syncer started")
	for {
		select {
		case <-ctx.Done():
			s.Flush(context.Background())
			s.logger.Info().Msg("draft cart syncer stopped")
			return
		case <-s.wake:
			s.Flush(ctx)
		}
	}
}

// Flush pushes every pending draft once.
func (s *Syncer) Flush(ctx context.Context) {
	for _, draft := range s.drain() {
		pushCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := s.sink.PushDraft(pushCtx, draft)
		cancel()
		if err != nil {
			s.logger.Warn().Err(err).
				Str("session_id", draft.SessionID).
				Uint64("version", draft.Cart.Version).
				Msg("draft cart sync failed")
			continue
		}
		s.markSent(draft.SessionID, draft.Cart.Version)
	}
}

func (s *Syncer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *Syncer) drain() []domain.DraftCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := make([]domain.DraftCart, 0, len(s.pending))
	for id, snap := range s.pending {
		drafts = append(drafts, domain.DraftCart{SessionID: id, Cart: snap})
	}
	s.pending = make(map[string]domain.CartSnapshot)
	return drafts
}

func (s *Syncer) markSent(sessionID string, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version > s.sent[sessionID] {
		s.sent[sessionID] = version
	}
}
