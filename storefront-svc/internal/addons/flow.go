package addons

import (
	"context"
	"fmt"
	"sync"

	"zestify-storefront/storefront-svc/internal/domain"
)

type State string

const (
	StateClosed    State = "closed"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateConfirmed State = "confirmed"
)

type Source interface {
	GetAddons(ctx context.Context, menuItemID string) ([]domain.Addon, error)
}

type View struct {
	State        State            `json:"state"`
	RestaurantID string           `json:"restaurant_id,omitempty"`
	Item         *domain.MenuItem `json:"item,omitempty"`
	Required     []domain.Addon   `json:"required"`
	Optional     []domain.Addon   `json:"optional"`
	Selected     []string         `json:"selected"`
	CanConfirm   bool             `json:"can_confirm"`
}

type Selection struct {
	RestaurantID string
	Item         domain.MenuItem
	Addons       []domain.SelectedAddon
}

// Flow gathers addon choices for one menu item before it is added to the
// cart. Every Open and Cancel bumps gen; a fetch that completes under an older
// generation is dropped.
type Flow struct {
	source Source

	mu           sync.Mutex
	gen          uint64
	state        State
	restaurantID string
	item         *domain.MenuItem
	required     []domain.Addon
	optional     []domain.Addon
	selected     map[string]struct{}
	cancelFetch  context.CancelFunc
}

func NewFlow(source Source) *Flow {
	return &Flow{source: source, state: StateClosed, selected: map[string]struct{}{}}
}

// Open targets a menu item. Embedded addon data skips the fetch.
func (f *Flow) Open(ctx context.Context, restaurantID string, item domain.MenuItem) (View, error) {
	f.mu.Lock()
	f.resetLocked()
	f.gen++
	gen := f.gen
	f.restaurantID = restaurantID
	f.item = &item

	if len(item.Addons) > 0 {
		f.required, f.optional = Partition(item.Addons)
		f.state = StateReady
		view := f.viewLocked()
		f.mu.Unlock()
		return view, nil
	}

	f.state = StateLoading
	fetchCtx, cancel := context.WithCancel(ctx)
	f.cancelFetch = cancel
	f.mu.Unlock()

	fetched, err := f.source.GetAddons(fetchCtx, item.ID)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen != f.gen {
		return f.viewLocked(), domain.ErrStaleResponse
	}
	f.cancelFetch = nil
	if err != nil {
		f.resetLocked()
		return f.viewLocked(), fmt.Errorf("load addons for %s: %w", item.ID, err)
	}

	f.required, f.optional = Partition(fetched)
	f.state = StateReady
	return f.viewLocked(), nil
}

// Toggle flips membership of an addon in the selection.
func (f *Flow) Toggle(addonID string) (View, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateReady {
		return f.viewLocked(), domain.NewValidationError("state", "addon selection is not open")
	}
	if _, ok := f.lookupLocked(addonID); !ok {
		return f.viewLocked(), domain.NewValidationError("addon_id", "unknown or unavailable addon")
	}

	if _, ok := f.selected[addonID]; ok {
		delete(f.selected, addonID)
	} else {
		f.selected[addonID] = struct{}{}
	}
	return f.viewLocked(), nil
}

// CanConfirm requires at least one selected addon from the required group
// when that group is non-empty. It does not require one per required addon.
func (f *Flow) CanConfirm() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canConfirmLocked()
}

// Confirm hands the selection to the caller and closes the flow.
func (f *Flow) Confirm() (Selection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateReady {
		return Selection{}, domain.NewValidationError("state", "addon selection is not open")
	}
	if !f.canConfirmLocked() {
		return Selection{}, domain.NewValidationError("addons", "select at least one required addon")
	}

	f.state = StateConfirmed
	sel := Selection{RestaurantID: f.restaurantID, Item: *f.item}
	for _, group := range [][]domain.Addon{f.required, f.optional} {
		for _, a := range group {
			if _, ok := f.selected[a.ID]; ok {
				sel.Addons = append(sel.Addons, domain.SelectedAddon{ID: a.ID, Name: a.Name, Price: a.Price})
			}
		}
	}

	f.gen++
	f.resetLocked()
	return sel, nil
}

// Cancel discards the selection and any in-flight fetch.
func (f *Flow) Cancel() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.resetLocked()
	return f.viewLocked()
}

func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Partition splits addons into required and optional, dropping unavailable ones.
func Partition(all []domain.Addon) (required, optional []domain.Addon) {
	required, optional = []domain.Addon{}, []domain.Addon{}
	for _, a := range all {
		if !a.IsAvailable {
			continue
		}
		if a.IsRequired {
			required = append(required, a)
		} else {
			optional = append(optional, a)
		}
	}
	return required, optional
}

func (f *Flow) canConfirmLocked() bool {
	if f.state != StateReady {
		return false
	}
	if len(f.required) == 0 {
		return true
	}
	for _, a := range f.required {
		if _, ok := f.selected[a.ID]; ok {
			return true
		}
	}
	return false
}

func (f *Flow) lookupLocked(id string) (domain.Addon, bool) {
	for _, group := range [][]domain.Addon{f.required, f.optional} {
		for _, a := range group {
			if a.ID == id {
				return a, true
			}
		}
	}
	return domain.Addon{}, false
}

func (f *Flow) resetLocked() {
	if f.cancelFetch != nil {
		f.cancelFetch()
		f.cancelFetch = nil
	}
	f.state = StateClosed
	f.restaurantID = ""
	f.item = nil
	f.required = nil
	f.optional = nil
	f.selected = map[string]struct{}{}
}

func (f *Flow) viewLocked() View {
	view := View{
		State:        f.state,
		RestaurantID: f.restaurantID,
		Required:     append([]domain.Addon{}, f.required...),
		Optional:     append([]domain.Addon{}, f.optional...),
		Selected:     []string{},
		CanConfirm:   f.canConfirmLocked(),
	}
	if f.item != nil {
		item := *f.item
		view.Item = &item
	}
	for _, group := range [][]domain.Addon{f.required, f.optional} {
		for _, a := range group {
			if _, ok := f.selected[a.ID]; ok {
				view.Selected = append(view.Selected, a.ID)
			}
		}
	}
	return view
}
