package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zestify-storefront/storefront-svc/internal/domain"
)

var (
	pizza  = domain.MenuItem{ID: "pizza", Name: "Margherita", Price: 250, Category: "Pizza", IsVeg: true, IsAvailable: true, HasAddons: true}
	soda   = domain.MenuItem{ID: "soda", Name: "Lime Soda", Price: 60, Category: "Drinks", IsVeg: true, IsAvailable: true}
	kebab  = domain.MenuItem{ID: "kebab", Name: "Seekh Kebab", Description: "smoky", Price: 320, Category: "Starters", IsAvailable: false}
	oneSod = []domain.CartLine{{Key: "soda", MenuItemID: "soda", Quantity: 2}}
	twoPiz = []domain.CartLine{
		{Key: "pizza|cheese", MenuItemID: "pizza", Quantity: 1},
		{Key: "pizza|olives", MenuItemID: "pizza", Quantity: 3},
	}
)

func TestPresent_Controls(t *testing.T) {
	lines := append(append([]domain.CartLine{}, oneSod...), twoPiz...)
	views := Present([]domain.MenuItem{pizza, soda, kebab}, lines)
	require.Len(t, views, 3)

	tests := []struct {
		idx      int
		control  Control
		quantity int
		lineKey  string
		label    string
	}{
		{idx: 0, control: ControlChoose, quantity: 4, label: "Customise"},
		{idx: 1, control: ControlStepper, quantity: 2, lineKey: "soda"},
		{idx: 2, control: ControlSoldOut, quantity: 0, label: "Sold Out"},
	}

	for _, testCase := range tests {
		v := views[testCase.idx]
		assert.Equal(t, testCase.control, v.Control, v.ID)
		assert.Equal(t, testCase.quantity, v.Quantity, v.ID)
		assert.Equal(t, testCase.lineKey, v.LineKey, v.ID)
		assert.Equal(t, testCase.label, v.Label, v.ID)
	}
}

func TestPresent_EmptyCartShowsAdd(t *testing.T) {
	views := Present([]domain.MenuItem{soda}, nil)
	assert.Equal(t, ControlAdd, views[0].Control)
	assert.Equal(t, "Add", views[0].Label)
	assert.Zero(t, views[0].Quantity)
}

func TestPresent_UnavailableWithLineKeepsStepper(t *testing.T) {
	views := Present([]domain.MenuItem{kebab}, []domain.CartLine{{Key: "kebab", MenuItemID: "kebab", Quantity: 1}})
	assert.Equal(t, ControlStepper, views[0].Control)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		item    domain.MenuItem
		lines   []domain.CartLine
		delta   int
		want    Step
		wantErr error
	}{
		{name: "add plain item", item: soda, delta: 1, want: Step{Kind: StepAdd, Quantity: 1}},
		{name: "add item with addons opens flow", item: pizza, delta: 1, want: Step{Kind: StepOpenAddons}},
		{name: "sold out add", item: kebab, delta: 1, wantErr: domain.ErrValidation},
		{name: "decrement without line", item: soda, delta: -1, wantErr: domain.ErrNotFound},
		{name: "increment single line", item: soda, lines: oneSod, delta: 1, want: Step{Kind: StepSetQuantity, LineKey: "soda", Quantity: 3}},
		{name: "decrement single line to zero", item: soda, lines: []domain.CartLine{{Key: "soda", MenuItemID: "soda", Quantity: 1}}, delta: -1, want: Step{Kind: StepSetQuantity, LineKey: "soda", Quantity: 0}},
		{name: "ambiguous increment", item: pizza, lines: twoPiz, delta: 1, want: Step{Kind: StepOpenAddons}, wantErr: domain.ErrAmbiguousLine},
		{name: "ambiguous decrement", item: pizza, lines: twoPiz, delta: -1, want: Step{Kind: StepOpenAddons}, wantErr: domain.ErrAmbiguousLine},
		{name: "other items ignored", item: soda, lines: twoPiz, delta: 1, want: Step{Kind: StepAdd, Quantity: 1}},
		{name: "zero delta", item: soda, delta: 0, wantErr: domain.ErrValidation},
		{name: "increment unavailable line", item: kebab, lines: []domain.CartLine{{Key: "kebab", MenuItemID: "kebab", Quantity: 1}}, delta: 1, wantErr: domain.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			step, err := Resolve(testCase.item, testCase.lines, testCase.delta)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, testCase.want, step)
		})
	}
}

func TestCategoriesAndFilter(t *testing.T) {
	items := []domain.MenuItem{pizza, soda, kebab, {ID: "x", Name: "Mystery"}}
	assert.Equal(t, []string{"Pizza", "Drinks", "Starters", "Other"}, Categories(items))

	veg := Filter(items, "", true)
	assert.Len(t, veg, 2)

	found := Filter(items, "  SMOKY ", false)
	require.Len(t, found, 1)
	assert.Equal(t, "kebab", found[0].ID)

	assert.Len(t, Filter(items, "drinks", false), 1)
}

func TestSortForDisplay(t *testing.T) {
	views := Present([]domain.MenuItem{kebab, pizza, soda}, nil)
	SortForDisplay(views)
	assert.Equal(t, []string{"pizza", "soda", "kebab"}, []string{views[0].ID, views[1].ID, views[2].ID})
}
