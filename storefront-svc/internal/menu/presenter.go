package menu

import (
	"sort"
	"strings"

	"zestify-storefront/storefront-svc/internal/domain"
)

type Control string

const (
	ControlAdd     Control = "add"
	ControlSoldOut Control = "sold_out"
	ControlStepper Control = "stepper"
	ControlChoose  Control = "choose"
)

type ItemView struct {
	domain.MenuItem
	Quantity int     `json:"quantity"`
	Control  Control `json:"control"`
	Label    string  `json:"label"`
	LineKey  string  `json:"line_key,omitempty"`
	Lines    int     `json:"lines"`
}

// Present decorates menu items with the cart-driven control each one shows.
func Present(items []domain.MenuItem, lines []domain.CartLine) []ItemView {
	byItem := groupLines(lines)

	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, present(item, byItem[item.ID]))
	}
	return views
}

func present(item domain.MenuItem, lines []domain.CartLine) ItemView {
	view := ItemView{MenuItem: item, Lines: len(lines)}
	for _, l := range lines {
		view.Quantity += l.Quantity
	}

	switch {
	case view.Quantity == 0 && !item.IsAvailable:
		view.Control, view.Label = ControlSoldOut, "Sold Out"
	case view.Quantity == 0:
		view.Control, view.Label = ControlAdd, "Add"
	case len(lines) == 1:
		view.Control, view.Label = ControlStepper, ""
		view.LineKey = lines[0].Key
	default:
		view.Control, view.Label = ControlChoose, "Customise"
	}
	return view
}

type StepKind string

const (
	StepAdd         StepKind = "add"
	StepOpenAddons  StepKind = "open_addons"
	StepSetQuantity StepKind = "set_quantity"
)

type Step struct {
	Kind     StepKind `json:"kind"`
	LineKey  string   `json:"line_key,omitempty"`
	Quantity int      `json:"quantity,omitempty"`
}

// Resolve turns an increment/decrement on a menu card into a concrete cart
// step. With several lines for the same item it never picks one: the caller
// gets StepOpenAddons and ErrAmbiguousLine.
func Resolve(item domain.MenuItem, lines []domain.CartLine, delta int) (Step, error) {
	if delta == 0 {
		return Step{}, domain.NewValidationError("delta", "must not be zero")
	}

	var own []domain.CartLine
	for _, l := range lines {
		if l.MenuItemID == item.ID {
			own = append(own, l)
		}
	}

	switch len(own) {
	case 0:
		if delta < 0 {
			return Step{}, &domain.NotFoundError{Kind: "cart line", ID: item.ID}
		}
		if !item.IsAvailable {
			return Step{}, domain.NewValidationError("menu_item_id", "item is sold out")
		}
		if item.NeedsAddonSelection() {
			return Step{Kind: StepOpenAddons}, nil
		}
		return Step{Kind: StepAdd, Quantity: delta}, nil
	case 1:
		if delta > 0 && !item.IsAvailable {
			return Step{}, domain.NewValidationError("menu_item_id", "item is sold out")
		}
		return Step{Kind: StepSetQuantity, LineKey: own[0].Key, Quantity: own[0].Quantity + delta}, nil
	default:
		return Step{Kind: StepOpenAddons}, domain.ErrAmbiguousLine
	}
}

// Categories lists distinct categories in first-seen order.
func Categories(items []domain.MenuItem) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		c := strings.TrimSpace(item.Category)
		if c == "" {
			c = "Other"
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Filter keeps items whose name, description or category contains query.
func Filter(items []domain.MenuItem, query string, vegOnly bool) []domain.MenuItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.MenuItem, 0, len(items))
	for _, item := range items {
		if vegOnly && !item.IsVeg {
			continue
		}
		if q != "" && !matches(item, q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SortForDisplay puts available items first, keeping menu order otherwise.
func SortForDisplay(views []ItemView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].IsAvailable && !views[j].IsAvailable
	})
}

func matches(item domain.MenuItem, q string) bool {
	return strings.Contains(strings.ToLower(item.Name), q) ||
		strings.Contains(strings.ToLower(item.Description), q) ||
		strings.Contains(strings.ToLower(item.Category), q)
}

func groupLines(lines []domain.CartLine) map[string][]domain.CartLine {
	out := make(map[string][]domain.CartLine)
	for _, l := range lines {
		out[l.MenuItemID] = append(out[l.MenuItemID], l)
	}
	return out
}
