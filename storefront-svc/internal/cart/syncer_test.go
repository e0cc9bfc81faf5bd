package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zestify-storefront/storefront-svc/internal/domain"
)

type recordingSink struct {
	mu     sync.Mutex
	drafts []domain.DraftCart
	fail   bool
}

func (r *recordingSink) PushDraft(_ context.Context, draft domain.DraftCart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("order service unavailable")
	}
	r.drafts = append(r.drafts, draft)
	return nil
}

func (r *recordingSink) pushed() []domain.DraftCart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.DraftCart(nil), r.drafts...)
}

func TestSyncer_CoalescesToLatestVersion(t *testing.T) {
	sink := &recordingSink{}
	syncer := NewSyncer(sink, zerolog.Nop(), time.Second)

	syncer.Enqueue("s1", domain.CartSnapshot{Version: 1, TotalPrice: 100})
	syncer.Enqueue("s1", domain.CartSnapshot{Version: 3, TotalPrice: 300})
	syncer.Enqueue("s1", domain.CartSnapshot{Version: 2, TotalPrice: 200})
	syncer.Enqueue("s2", domain.CartSnapshot{Version: 1, TotalPrice: 50})
	assert.Equal(t, 2, syncer.Pending())

	syncer.Flush(context.Background())

	drafts := sink.pushed()
	require.Len(t, drafts, 2)
	for _, d := range drafts {
		if d.SessionID == "s1" {
			assert.Equal(t, uint64(3), d.Cart.Version)
			assert.Equal(t, 300.0, d.Cart.TotalPrice)
		}
	}
	assert.Zero(t, syncer.Pending())
}

func TestSyncer_DropsVersionsAlreadySent(t *testing.T) {
	sink := &recordingSink{}
	syncer := NewSyncer(sink, zerolog.Nop(), time.Second)

	syncer.Enqueue("s1", domain.CartSnapshot{Version: 5})
	syncer.Flush(context.Background())

	syncer.Enqueue("s1", domain.CartSnapshot{Version: 4})
	assert.Zero(t, syncer.Pending())

	syncer.Enqueue("s1", domain.CartSnapshot{Version: 6})
	assert.Equal(t, 1, syncer.Pending())
}

func TestSyncer_FailureIsLoggedNotRetried(t *testing.T) {
	sink := &recordingSink{fail: true}
	syncer := NewSyncer(sink, zerolog.Nop(), time.Second)

	syncer.Enqueue("s1", domain.CartSnapshot{Version: 1})
	syncer.Flush(context.Background())

	assert.Empty(t, sink.pushed())
	assert.Zero(t, syncer.Pending())

	// a failed version can be superseded by the next mutation
	sink.fail = false
	syncer.Enqueue("s1", domain.CartSnapshot{Version: 2})
	syncer.Flush(context.Background())
	assert.Len(t, sink.pushed(), 1)
}

func TestSyncer_RunDrainsOnWake(t *testing.T) {
	sink := &recordingSink{}
	syncer := NewSyncer(sink, zerolog.Nop(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		syncer.Run(ctx)
		close(done)
	}()

	syncer.Enqueue("s1", domain.CartSnapshot{Version: 1})
	assert.Eventually(t, func() bool { return len(sink.pushed()) == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestSyncer_NilSinkIsNoop(t *testing.T) {
	syncer := NewSyncer(nil, zerolog.Nop(), 0)
	syncer.Enqueue("s1", domain.CartSnapshot{Version: 1})
	assert.Zero(t, syncer.Pending())

	var nilSyncer *Syncer
	nilSyncer.Enqueue("s1", domain.CartSnapshot{Version: 1})
}

func TestSyncer_ForgetDropsSessionState(t *testing.T) {
	sink := &recordingSink{}
	syncer := NewSyncer(sink, zerolog.Nop(), time.Second)

	for i := 0; i < 50; i++ {
		syncer.Enqueue(fmt.Sprintf("s%d", i), domain.CartSnapshot{Version: 1})
	}
	syncer.Flush(context.Background())
	assert.Equal(t, 50, syncer.Tracked())

	for i := 0; i < 50; i++ {
		syncer.Forget(fmt.Sprintf("s%d", i))
	}
	assert.Zero(t, syncer.Tracked())

	var nilSyncer *Syncer
	nilSyncer.Forget("s1")
}
