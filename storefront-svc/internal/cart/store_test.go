package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zestify-storefront/storefront-svc/internal/domain"
)

func pizza(qty int, addons ...domain.SelectedAddon) AddRequest {
	return AddRequest{RestaurantID: "r1", MenuItemID: "pizza", Name: "Margherita", UnitPrice: 250, Quantity: qty, Addons: addons}
}

var (
	cheese = domain.SelectedAddon{ID: "cheese", Name: "Extra cheese", Price: 40}
	olives = domain.SelectedAddon{ID: "olives", Name: "Olives", Price: 25.5}
)

func TestStore_Scenario(t *testing.T) {
	store := NewStore()

	snap, err := store.AddItem(pizza(1))
	require.NoError(t, err)
	assert.Equal(t, 250.0, snap.TotalPrice)
	assert.Equal(t, "r1", snap.RestaurantID)

	snap, err = store.AddItem(pizza(1))
	require.NoError(t, err)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, 500.0, snap.TotalPrice)

	before := store.Snapshot()
	_, err = store.AddItem(AddRequest{RestaurantID: "r2", MenuItemID: "burger", UnitPrice: 180, Quantity: 1})
	var mismatch *domain.RestaurantMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "r1", mismatch.CartRestaurantID)
	assert.Equal(t, "r2", mismatch.RequestedRestaurantID)
	assert.Equal(t, before, store.Snapshot())
}

func TestStore_AddonSignatureMerging(t *testing.T) {
	tests := []struct {
		name      string
		first     []domain.SelectedAddon
		second    []domain.SelectedAddon
		wantLines int
	}{
		{name: "same set same order", first: []domain.SelectedAddon{cheese, olives}, second: []domain.SelectedAddon{cheese, olives}, wantLines: 1},
		{name: "same set reversed", first: []domain.SelectedAddon{cheese, olives}, second: []domain.SelectedAddon{olives, cheese}, wantLines: 1},
		{name: "duplicate ids collapse", first: []domain.SelectedAddon{cheese}, second: []domain.SelectedAddon{cheese, cheese}, wantLines: 1},
		{name: "subset differs", first: []domain.SelectedAddon{cheese, olives}, second: []domain.SelectedAddon{cheese}, wantLines: 2},
		{name: "plain versus addon", first: nil, second: []domain.SelectedAddon{olives}, wantLines: 2},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := NewStore()
			_, err := store.AddItem(pizza(1, testCase.first...))
			require.NoError(t, err)
			snap, err := store.AddItem(pizza(2, testCase.second...))
			require.NoError(t, err)

			assert.Len(t, snap.Lines, testCase.wantLines)
			assert.Equal(t, 3, snap.ItemCount)
			assert.InDelta(t, Total(snap.Lines), snap.TotalPrice, 1e-9)
		})
	}
}

func TestStore_TotalIncludesAddons(t *testing.T) {
	store := NewStore()
	_, err := store.AddItem(pizza(2, cheese, olives))
	require.NoError(t, err)
	snap, err := store.AddItem(AddRequest{RestaurantID: "r1", MenuItemID: "soda", UnitPrice: 0.1, Quantity: 3})
	require.NoError(t, err)

	// 2 × (250 + 40 + 25.5) + 3 × 0.1
	assert.Equal(t, 631.3, snap.TotalPrice)
	assert.Equal(t, 631.0, snap.Lines[0].LineTotal)
	assert.Equal(t, 0.3, snap.Lines[1].LineTotal)
}

func TestStore_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   AddRequest
		field string
	}{
		{name: "zero quantity", req: pizza(0), field: "quantity"},
		{name: "missing restaurant", req: AddRequest{MenuItemID: "x", Quantity: 1}, field: "restaurant_id"},
		{name: "missing item", req: AddRequest{RestaurantID: "r1", Quantity: 1}, field: "menu_item_id"},
		{name: "negative price", req: AddRequest{RestaurantID: "r1", MenuItemID: "x", UnitPrice: -1, Quantity: 1}, field: "price"},
		{name: "negative addon", req: pizza(1, domain.SelectedAddon{ID: "a", Price: -2}), field: "addons"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := NewStore()
			_, err := store.AddItem(testCase.req)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, testCase.field, verr.Field)
			assert.True(t, store.Snapshot().IsEmpty())
			assert.Zero(t, store.Version())
		})
	}
}

func TestStore_UpdateQuantity(t *testing.T) {
	store := NewStore()
	snap, err := store.AddItem(pizza(1, cheese))
	require.NoError(t, err)
	key := snap.Lines[0].Key
	assert.Equal(t, "pizza|cheese", key)

	snap, err = store.UpdateQuantity(key, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Lines[0].Quantity)
	assert.Equal(t, 1160.0, snap.TotalPrice)

	_, err = store.UpdateQuantity("nope", 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_UpdateToZeroEqualsRemove(t *testing.T) {
	for _, qty := range []int{0, -3} {
		viaUpdate := NewStore()
		viaRemove := NewStore()
		for _, s := range []*Store{viaUpdate, viaRemove} {
			_, err := s.AddItem(pizza(2))
			require.NoError(t, err)
			_, err = s.AddItem(pizza(1, olives))
			require.NoError(t, err)
		}

		a, err := viaUpdate.UpdateQuantity("pizza", qty)
		require.NoError(t, err)
		b, err := viaRemove.RemoveItem("pizza")
		require.NoError(t, err)

		assert.Equal(t, b.Lines, a.Lines)
		assert.Equal(t, b.TotalPrice, a.TotalPrice)
		assert.Equal(t, b.RestaurantID, a.RestaurantID)
	}
}

func TestStore_RemoveLastLineUnbindsRestaurant(t *testing.T) {
	store := NewStore()
	_, err := store.AddItem(pizza(1))
	require.NoError(t, err)

	snap, err := store.RemoveItem("pizza")
	require.NoError(t, err)
	assert.Empty(t, snap.RestaurantID)
	assert.Zero(t, snap.TotalPrice)

	_, err = store.AddItem(AddRequest{RestaurantID: "r2", MenuItemID: "burger", UnitPrice: 180, Quantity: 1})
	assert.NoError(t, err)

	_, err = store.RemoveItem("pizza")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ClearAndCoupon(t *testing.T) {
	store := NewStore()
	_, err := store.AddItem(pizza(1))
	require.NoError(t, err)

	snap := store.SetCoupon("  save20 ")
	assert.Equal(t, "SAVE20", snap.CouponCode)

	snap = store.Clear()
	assert.True(t, snap.IsEmpty())
	assert.Empty(t, snap.RestaurantID)
	assert.Empty(t, snap.CouponCode)
	assert.Equal(t, uint64(3), snap.Version)
}

func TestStore_Restore(t *testing.T) {
	store := NewStore()
	err := store.Restore(domain.CartSnapshot{
		Lines: []domain.CartLine{
			{MenuItemID: "pizza", RestaurantID: "r1", UnitPrice: 250, Quantity: 1, Addons: []domain.SelectedAddon{olives, cheese}},
			{MenuItemID: "pizza", RestaurantID: "r1", UnitPrice: 250, Quantity: 2, Addons: []domain.SelectedAddon{cheese, olives}},
		},
		TotalPrice: 1,
		Version:    7,
	})
	require.NoError(t, err)

	snap := store.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "pizza|cheese,olives", snap.Lines[0].Key)
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.Equal(t, 946.5, snap.TotalPrice)
	assert.Equal(t, "r1", snap.RestaurantID)
	assert.Equal(t, uint64(7), snap.Version)
}

func TestStore_RestoreRejectsMixedRestaurants(t *testing.T) {
	store := NewStore()
	_, err := store.AddItem(pizza(1))
	require.NoError(t, err)
	before := store.Snapshot()

	err = store.Restore(domain.CartSnapshot{Lines: []domain.CartLine{
		{MenuItemID: "a", RestaurantID: "r1", Quantity: 1},
		{MenuItemID: "b", RestaurantID: "r2", Quantity: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrRestaurantMismatch)
	assert.Equal(t, before, store.Snapshot())

	err = store.Restore(domain.CartSnapshot{Lines: []domain.CartLine{{MenuItemID: "a", RestaurantID: "r1", Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStore_RestoreValidatesEveryLine(t *testing.T) {
	tests := []struct {
		name string
		line domain.CartLine
	}{
		{name: "missing restaurant on first line", line: domain.CartLine{MenuItemID: "a", Quantity: 1}},
		{name: "negative price", line: domain.CartLine{MenuItemID: "a", RestaurantID: "r1", UnitPrice: -10, Quantity: 1}},
		{name: "negative addon price", line: domain.CartLine{MenuItemID: "a", RestaurantID: "r1", Quantity: 1, Addons: []domain.SelectedAddon{{ID: "x", Price: -1}}}},
		{name: "blank addon id", line: domain.CartLine{MenuItemID: "a", RestaurantID: "r1", Quantity: 1, Addons: []domain.SelectedAddon{{Name: "x"}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := NewStore()
			err := store.Restore(domain.CartSnapshot{Lines: []domain.CartLine{tc.line}})
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.True(t, store.Snapshot().IsEmpty())
		})
	}
}

func TestStore_ReplaceWith(t *testing.T) {
	store := NewStore()
	_, err := store.AddItem(pizza(2, cheese))
	require.NoError(t, err)
	store.SetCoupon("save10")

	snap, err := store.ReplaceWith(AddRequest{RestaurantID: "r2", MenuItemID: "burger", Name: "Burger", UnitPrice: 180, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "r2", snap.RestaurantID)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "burger", snap.Lines[0].Key)
	assert.Empty(t, snap.CouponCode)
	assert.Equal(t, 180.0, snap.TotalPrice)

	before := store.Snapshot()
	_, err = store.ReplaceWith(AddRequest{RestaurantID: "r1", MenuItemID: "pizza", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, before, store.Snapshot())
}

func TestStore_ReplaceWithRacingAdds(t *testing.T) {
	store := NewStore()
	_, err := store.AddItem(pizza(1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = store.ReplaceWith(AddRequest{RestaurantID: "r2", MenuItemID: "burger", UnitPrice: 180, Quantity: 1})
	}()
	go func() {
		defer wg.Done()
		_, _ = store.AddItem(AddRequest{RestaurantID: "r2", MenuItemID: "fries", UnitPrice: 90, Quantity: 1})
	}()
	wg.Wait()

	snap := store.Snapshot()
	assert.Equal(t, "r2", snap.RestaurantID)
	assert.Equal(t, "burger", snap.Lines[0].MenuItemID)
	for _, l := range snap.Lines {
		assert.Equal(t, "r2", l.RestaurantID)
	}
}

func TestStore_ClearIf(t *testing.T) {
	store := NewStore()
	snap, err := store.AddItem(pizza(1))
	require.NoError(t, err)
	seen := snap.Version

	_, err = store.AddItem(pizza(1, olives))
	require.NoError(t, err)

	after, cleared := store.ClearIf(seen)
	assert.False(t, cleared)
	assert.Len(t, after.Lines, 2)

	after, cleared = store.ClearIf(after.Version)
	assert.True(t, cleared)
	assert.True(t, after.IsEmpty())
}

func TestStore_ConcurrentAddsOnSameLine(t *testing.T) {
	store := NewStore()
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.AddItem(pizza(1, cheese))
		}()
	}
	wg.Wait()

	snap := store.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, n, snap.Lines[0].Quantity)
	assert.Equal(t, uint64(n), snap.Version)
	assert.Equal(t, float64(n*290), snap.TotalPrice)
}

func TestLinesFor(t *testing.T) {
	store := NewStore()
	_, _ = store.AddItem(pizza(1))
	_, _ = store.AddItem(pizza(1, cheese))
	_, _ = store.AddItem(AddRequest{RestaurantID: "r1", MenuItemID: "soda", UnitPrice: 40, Quantity: 1})

	lines := store.LinesFor("pizza")
	assert.Len(t, lines, 2)
	lines[0].Quantity = 99
	assert.Equal(t, 1, store.LinesFor("pizza")[0].Quantity)
	assert.Empty(t, store.LinesFor("unknown"))
}

func TestAddonSignature(t *testing.T) {
	assert.Equal(t, "", AddonSignature(nil))
	assert.Equal(t, "a,b,c", AddonSignature([]domain.SelectedAddon{{ID: "c"}, {ID: "a"}, {ID: "b"}, {ID: "a"}}))
	assert.Equal(t, "pizza", LineKey("pizza", nil))
}
