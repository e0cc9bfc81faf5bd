package cart

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"zestify-storefront/storefront-svc/internal/domain"
)

type AddRequest struct {
	RestaurantID string
	MenuItemID   string
	Name         string
	UnitPrice    float64
	Quantity     int
	Addons       []domain.SelectedAddon
}

// Store is the cart of one session. It is bound to at most one restaurant at
// a time and every mutation holds mu, so concurrent requests on the same line
// apply one after another.
type Store struct {
	mu           sync.Mutex
	restaurantID string
	lines        []domain.CartLine
	couponCode   string
	version      uint64
	updatedAt    time.Time
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// LineKey is the identity of a line: the menu item plus the set of addon ids.
func LineKey(menuItemID string, addons []domain.SelectedAddon) string {
	sig := AddonSignature(addons)
	if sig == "" {
		return menuItemID
	}
	return menuItemID + "|" + sig
}

// AddonSignature is the sorted, de-duplicated addon id list.
func AddonSignature(addons []domain.SelectedAddon) string {
	if len(addons) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(addons))
	ids := make([]string, 0, len(addons))
	for _, a := range addons {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

func (s *Store) AddItem(req AddRequest) (domain.CartSnapshot, error) {
	if err := validateAdd(req); err != nil {
		return domain.CartSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lines) > 0 && s.restaurantID != req.RestaurantID {
		return domain.CartSnapshot{}, &domain.RestaurantMismatchError{
			CartRestaurantID:      s.restaurantID,
			RequestedRestaurantID: req.RestaurantID,
		}
	}

	key := LineKey(req.MenuItemID, req.Addons)
	if idx := s.indexOf(key); idx >= 0 {
		s.lines[idx].Quantity += req.Quantity
	} else {
		s.lines = append(s.lines, domain.CartLine{
			Key:          key,
			MenuItemID:   req.MenuItemID,
			RestaurantID: req.RestaurantID,
			Name:         req.Name,
			UnitPrice:    req.UnitPrice,
			Quantity:     req.Quantity,
			Addons:       dedupeAddons(req.Addons),
		})
	}
	s.restaurantID = req.RestaurantID

	s.touch()
	return s.snapshotLocked(), nil
}

// ReplaceWith empties the cart and adds req in one step, dropping any binding
// to another restaurant.
func (s *Store) ReplaceWith(req AddRequest) (domain.CartSnapshot, error) {
	if err := validateAdd(req); err != nil {
		return domain.CartSnapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := LineKey(req.MenuItemID, req.Addons)
	s.lines = []domain.CartLine{{
		Key:          key,
		MenuItemID:   req.MenuItemID,
		RestaurantID: req.RestaurantID,
		Name:         req.Name,
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		Addons:       dedupeAddons(req.Addons),
	}}
	s.restaurantID = req.RestaurantID
	s.couponCode = ""

	s.touch()
	return s.snapshotLocked(), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *Store) UpdateQuantity(lineKey string, quantity int) (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(lineKey)
	if idx < 0 {
		return domain.CartSnapshot{}, &domain.NotFoundError{Kind: "cart line", ID: lineKey}
	}
	if quantity <= 0 {
		s.removeAt(idx)
	} else {
		s.lines[idx].Quantity = quantity
	}

	s.touch()
	return s.snapshotLocked(), nil
}

func (s *Store) RemoveItem(lineKey string) (domain.CartSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(lineKey)
	if idx < 0 {
		return domain.CartSnapshot{}, &domain.NotFoundError{Kind: "cart line", ID: lineKey}
	}
	s.removeAt(idx)

	s.touch()
	return s.snapshotLocked(), nil
}

func (s *Store) Clear() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.restaurantID = ""
	s.couponCode = ""

	s.touch()
	return s.snapshotLocked()
}

// ClearIf empties the cart only while it is still at version. It reports
// false, leaving the cart alone, when something changed it in the meantime.
func (s *Store) ClearIf(version uint64) (domain.CartSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != version {
		return s.snapshotLocked(), false
	}
	s.lines = nil
	s.restaurantID = ""
	s.couponCode = ""

	s.touch()
	return s.snapshotLocked(), true
}

func (s *Store) SetCoupon(code string) domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.couponCode = strings.ToUpper(strings.TrimSpace(code))

	s.touch()
	return s.snapshotLocked()
}

// Restore replaces the state with a persisted snapshot. Totals are recomputed
// rather than trusted.
func (s *Store) Restore(snap domain.CartSnapshot) error {
	lines := make([]domain.CartLine, 0, len(snap.Lines))
	restaurantID := ""
	for i, l := range snap.Lines {
		if err := validateAdd(AddRequest{
			RestaurantID: l.RestaurantID,
			MenuItemID:   l.MenuItemID,
			UnitPrice:    l.UnitPrice,
			Quantity:     l.Quantity,
			Addons:       l.Addons,
		}); err != nil {
			return fmt.Errorf("persisted cart line %d: %w", i, err)
		}
		if i == 0 {
			restaurantID = l.RestaurantID
		}
		if l.RestaurantID != restaurantID {
			return &domain.RestaurantMismatchError{
				CartRestaurantID:      restaurantID,
				RequestedRestaurantID: l.RestaurantID,
			}
		}
		l.Addons = dedupeAddons(l.Addons)
		l.Key = LineKey(l.MenuItemID, l.Addons)
		lines = append(lines, l)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = mergeDuplicates(lines)
	s.restaurantID = restaurantID
	s.couponCode = snap.CouponCode
	if snap.Version > s.version {
		s.version = snap.Version
	}
	s.updatedAt = snap.UpdatedAt
	return nil
}

func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// LinesFor returns copies of the lines referencing a menu item.
func (s *Store) LinesFor(menuItemID string) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.CartLine
	for _, l := range s.lines {
		if l.MenuItemID == menuItemID {
			out = append(out, copyLine(l))
		}
	}
	return out
}

func (s *Store) RestaurantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restaurantID
}

func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) indexOf(key string) int {
	for i := range s.lines {
		if s.lines[i].Key == key {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(idx int) {
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	if len(s.lines) == 0 {
		s.restaurantID = ""
		s.lines = nil
	}
}

func (s *Store) touch() {
	s.version++
	s.updatedAt = s.now()
}

func (s *Store) snapshotLocked() domain.CartSnapshot {
	snap := domain.CartSnapshot{
		RestaurantID: s.restaurantID,
		Lines:        make([]domain.CartLine, 0, len(s.lines)),
		CouponCode:   s.couponCode,
		Version:      s.version,
		UpdatedAt:    s.updatedAt,
	}

	total := decimal.Zero
	for _, l := range s.lines {
		line := copyLine(l)
		lineTotal := lineAmount(line)
		line.LineTotal = lineTotal.InexactFloat64()
		total = total.Add(lineTotal)
		snap.ItemCount += line.Quantity
		snap.Lines = append(snap.Lines, line)
	}
	snap.TotalPrice = total.InexactFloat64()
	return snap
}

// lineAmount is quantity × (unit price + Σ addon price).
func lineAmount(l domain.CartLine) decimal.Decimal {
	unit := decimal.NewFromFloat(l.UnitPrice)
	for _, a := range l.Addons {
		unit = unit.Add(decimal.NewFromFloat(a.Price))
	}
	return unit.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total recomputes the price of a set of lines.
func Total(lines []domain.CartLine) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(lineAmount(l))
	}
	return total.InexactFloat64()
}

func validateAdd(req AddRequest) error {
	switch {
	case strings.TrimSpace(req.RestaurantID) == "":
		return domain.NewValidationError("restaurant_id", "is required")
	case strings.TrimSpace(req.MenuItemID) == "":
		return domain.NewValidationError("menu_item_id", "is required")
	case req.Quantity < 1:
		return domain.NewValidationError("quantity", "must be at least 1")
	case req.UnitPrice < 0:
		return domain.NewValidationError("price", "must not be negative")
	}
	for _, a := range req.Addons {
		if a.ID == "" {
			return domain.NewValidationError("addons", "addon id is required")
		}
		if a.Price < 0 {
			return domain.NewValidationError("addons", "addon price must not be negative")
		}
	}
	return nil
}

func dedupeAddons(addons []domain.SelectedAddon) []domain.SelectedAddon {
	out := make([]domain.SelectedAddon, 0, len(addons))
	seen := make(map[string]struct{}, len(addons))
	for _, a := range addons {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}

func mergeDuplicates(lines []domain.CartLine) []domain.CartLine {
	var out []domain.CartLine
	index := make(map[string]int, len(lines))
	for _, l := range lines {
		if i, ok := index[l.Key]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		index[l.Key] = len(out)
		out = append(out, l)
	}
	return out
}

func copyLine(l domain.CartLine) domain.CartLine {
	l.Addons = append([]domain.SelectedAddon(nil), l.Addons...)
	if l.Addons == nil {
		l.Addons = []domain.SelectedAddon{}
	}
	return l
}
