package addons

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zestify-storefront/storefront-svc/internal/domain"
)

type stubSource struct {
	addons  []domain.Addon
	err     error
	calls   atomic.Int32
	release chan struct{}
	started chan struct{}
}

func (s *stubSource) GetAddons(ctx context.Context, _ string) ([]domain.Addon, error) {
	s.calls.Add(1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.addons, s.err
}

var (
	crust   = domain.Addon{ID: "thin", Name: "Thin crust", Price: 0, IsRequired: true, IsAvailable: true}
	pan     = domain.Addon{ID: "pan", Name: "Pan crust", Price: 30, IsRequired: true, IsAvailable: true}
	stuffed = domain.Addon{ID: "stuffed", Name: "Stuffed crust", Price: 80, IsRequired: true, IsAvailable: false}
	cheese  = domain.Addon{ID: "cheese", Name: "Extra cheese", Price: 40, IsAvailable: true}
	jalap   = domain.Addon{ID: "jalapeno", Name: "Jalapeno", Price: 20, IsAvailable: false}
	pizza   = domain.MenuItem{ID: "pizza", Name: "Margherita", Price: 250, IsAvailable: true, HasAddons: true}
)

func TestPartition(t *testing.T) {
	required, optional := Partition([]domain.Addon{crust, stuffed, cheese, jalap, pan})
	assert.Equal(t, []domain.Addon{crust, pan}, required)
	assert.Equal(t, []domain.Addon{cheese}, optional)

	required, optional = Partition(nil)
	assert.Empty(t, required)
	assert.Empty(t, optional)
}

func TestFlow_FetchesWhenNoEmbeddedAddons(t *testing.T) {
	source := &stubSource{addons: []domain.Addon{crust, pan, cheese, jalap}}
	flow := NewFlow(source)

	view, err := flow.Open(context.Background(), "r1", pizza)
	require.NoError(t, err)
	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, StateReady, view.State)
	assert.Len(t, view.Required, 2)
	assert.Len(t, view.Optional, 1)
	assert.False(t, view.CanConfirm)
}

func TestFlow_EmbeddedAddonsSkipFetch(t *testing.T) {
	source := &stubSource{}
	flow := NewFlow(source)

	item := pizza
	item.Addons = []domain.Addon{cheese}
	view, err := flow.Open(context.Background(), "r1", item)
	require.NoError(t, err)
	assert.Zero(t, source.calls.Load())
	assert.Equal(t, StateReady, view.State)
	assert.True(t, view.CanConfirm)
}

func TestFlow_ConfirmGuard(t *testing.T) {
	flow := NewFlow(&stubSource{addons: []domain.Addon{crust, pan, cheese}})
	_, err := flow.Open(context.Background(), "r1", pizza)
	require.NoError(t, err)

	view, err := flow.Toggle("cheese")
	require.NoError(t, err)
	assert.False(t, view.CanConfirm)
	_, err = flow.Confirm()
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, StateReady, flow.State())

	view, err = flow.Toggle("pan")
	require.NoError(t, err)
	assert.True(t, view.CanConfirm)
	assert.Equal(t, []string{"pan", "cheese"}, view.Selected)

	sel, err := flow.Confirm()
	require.NoError(t, err)
	assert.Equal(t, "r1", sel.RestaurantID)
	assert.Equal(t, "pizza", sel.Item.ID)
	assert.Equal(t, []domain.SelectedAddon{
		{ID: "pan", Name: "Pan crust", Price: 30},
		{ID: "cheese", Name: "Extra cheese", Price: 40},
	}, sel.Addons)
	assert.Equal(t, StateClosed, flow.State())
}

func TestFlow_ToggleTwiceRemoves(t *testing.T) {
	flow := NewFlow(&stubSource{addons: []domain.Addon{crust}})
	_, err := flow.Open(context.Background(), "r1", pizza)
	require.NoError(t, err)

	_, err = flow.Toggle("thin")
	require.NoError(t, err)
	view, err := flow.Toggle("thin")
	require.NoError(t, err)
	assert.Empty(t, view.Selected)
	assert.False(t, flow.CanConfirm())
}

func TestFlow_ToggleValidation(t *testing.T) {
	flow := NewFlow(&stubSource{addons: []domain.Addon{crust, jalap}})

	_, err := flow.Toggle("thin")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = flow.Open(context.Background(), "r1", pizza)
	require.NoError(t, err)
	_, err = flow.Toggle("jalapeno")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = flow.Toggle("missing")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlow_CancelDiscardsSelection(t *testing.T) {
	flow := NewFlow(&stubSource{addons: []domain.Addon{crust, cheese}})
	_, err := flow.Open(context.Background(), "r1", pizza)
	require.NoError(t, err)
	_, err = flow.Toggle("thin")
	require.NoError(t, err)

	view := flow.Cancel()
	assert.Equal(t, StateClosed, view.State)
	assert.Empty(t, view.Selected)
	assert.Nil(t, view.Item)

	_, err = flow.Confirm()
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlow_FetchErrorCloses(t *testing.T) {
	flow := NewFlow(&stubSource{err: &domain.NetworkError{StatusCode: 500, Message: "boom"}})

	view, err := flow.Open(context.Background(), "r1", pizza)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, StateClosed, view.State)
}

func TestFlow_StaleFetchDiscardedAfterCancel(t *testing.T) {
	source := &stubSource{
		addons:  []domain.Addon{crust},
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	flow := NewFlow(source)

	type result struct {
		view View
		err  error
	}
	done := make(chan result, 1)
	go func() {
		view, err := flow.Open(context.Background(), "r1", pizza)
		done <- result{view, err}
	}()

	<-source.started
	assert.Equal(t, StateLoading, flow.State())
	flow.Cancel()

	select {
	case res := <-done:
		assert.True(t, errors.Is(res.err, domain.ErrStaleResponse))
		assert.Equal(t, StateClosed, res.view.State)
	case <-time.After(time.Second):
		t.Fatal("open did not return after cancel")
	}
	assert.Equal(t, StateClosed, flow.State())
}

func TestFlow_ReopenSupersedesPendingFetch(t *testing.T) {
	source := &stubSource{
		addons:  []domain.Addon{cheese},
		release: make(chan struct{}),
		started: make(chan struct{}, 2),
	}
	flow := NewFlow(source)

	first := make(chan error, 1)
	go func() {
		_, err := flow.Open(context.Background(), "r1", pizza)
		first <- err
	}()
	<-source.started

	second := make(chan View, 1)
	go func() {
		other := pizza
		other.ID = "calzone"
		view, _ := flow.Open(context.Background(), "r1", other)
		second <- view
	}()

	assert.ErrorIs(t, <-first, domain.ErrStaleResponse)
	<-source.started
	close(source.release)

	view := <-second
	assert.Equal(t, StateReady, view.State)
	require.NotNil(t, view.Item)
	assert.Equal(t, "calzone", view.Item.ID)
}
