package service

import (
	"context"
	"errors"

	"zestify-storefront/storefront-svc/internal/addons"
	"zestify-storefront/storefront-svc/internal/cart"
	"zestify-storefront/storefront-svc/internal/domain"
	"zestify-storefront/storefront-svc/internal/menu"
)

type AddItemInput struct {
	RestaurantID string   `json:"restaurant_id"`
	MenuItemID   string   `json:"menu_item_id"`
	Quantity     int      `json:"quantity"`
	AddonIDs     []string `json:"addon_ids"`
}

type StepInput struct {
	RestaurantID string `json:"restaurant_id"`
	MenuItemID   string `json:"-"`
	Delta        int    `json:"delta"`
}

type StepResult struct {
	Step   menu.Step           `json:"step"`
	Cart   domain.CartSnapshot `json:"cart"`
	Addons *addons.View        `json:"addons,omitempty"`
}

// cartWriter applies a mutation's aftermath: persist the snapshot and queue a
// draft sync.
type cartWriter struct {
	sessions *SessionManager
	drafts   DraftQueue
}

func (w cartWriter) commit(ctx context.Context, sess *Session, snap domain.CartSnapshot) domain.CartSnapshot {
	w.sessions.PersistCart(ctx, sess, snap)
	if w.drafts != nil {
		w.drafts.Enqueue(sess.ID, snap)
	}
	return snap
}

type CartService struct {
	menu MenuLookup
	cartWriter
}

func NewCartService(lookup MenuLookup, sessions *SessionManager, drafts DraftQueue) *CartService {
	return &CartService{menu: lookup, cartWriter: cartWriter{sessions: sessions, drafts: drafts}}
}

func (s *CartService) View(sess *Session) domain.CartSnapshot {
	return sess.Cart.Snapshot()
}

// Add looks the item up so name and price come from the menu, never from the
// caller.
func (s *CartService) Add(ctx context.Context, sess *Session, in AddItemInput) (domain.CartSnapshot, error) {
	req, err := s.buildAddRequest(ctx, in)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	snap, err := sess.Cart.AddItem(req)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return s.commit(ctx, sess, snap), nil
}

// Replace clears a cart bound to another restaurant and adds the item. It is
// the explicit confirmation path after a restaurant mismatch.
func (s *CartService) Replace(ctx context.Context, sess *Session, in AddItemInput) (domain.CartSnapshot, error) {
	req, err := s.buildAddRequest(ctx, in)
	if err != nil {
		return domain.CartSnapshot{}, err
	}

	snap, err := sess.Cart.ReplaceWith(req)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return s.commit(ctx, sess, snap), nil
}

func (s *CartService) Update(ctx context.Context, sess *Session, lineKey string, quantity int) (domain.CartSnapshot, error) {
	snap, err := sess.Cart.UpdateQuantity(lineKey, quantity)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return s.commit(ctx, sess, snap), nil
}

func (s *CartService) Remove(ctx context.Context, sess *Session, lineKey string) (domain.CartSnapshot, error) {
	snap, err := sess.Cart.RemoveItem(lineKey)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return s.commit(ctx, sess, snap), nil
}

func (s *CartService) Clear(ctx context.Context, sess *Session) domain.CartSnapshot {
	return s.commit(ctx, sess, sess.Cart.Clear())
}

func (s *CartService) SetCoupon(ctx context.Context, sess *Session, code string) domain.CartSnapshot {
	return s.commit(ctx, sess, sess.Cart.SetCoupon(code))
}

// Step applies a +/- press on a menu item. Items with addons, and items with
// several cart lines, go through the addon flow instead of guessing a line.
func (s *CartService) Step(ctx context.Context, sess *Session, in StepInput) (StepResult, error) {
	item, err := s.menu.FindMenuItem(ctx, in.RestaurantID, in.MenuItemID)
	if err != nil {
		return StepResult{}, err
	}

	step, err := menu.Resolve(item, sess.Cart.LinesFor(item.ID), in.Delta)
	if errors.Is(err, domain.ErrAmbiguousLine) {
		// route to the addon selection instead of picking a line
		if _, openErr := sess.Flow.Open(ctx, in.RestaurantID, item); openErr != nil {
			return StepResult{}, openErr
		}
		return StepResult{Step: step, Cart: sess.Cart.Snapshot()}, err
	}
	if err != nil {
		return StepResult{Step: step, Cart: sess.Cart.Snapshot()}, err
	}

	result := StepResult{Step: step}
	switch step.Kind {
	case menu.StepAdd:
		snap, err := sess.Cart.AddItem(cart.AddRequest{
			RestaurantID: in.RestaurantID,
			MenuItemID:   item.ID,
			Name:         item.Name,
			UnitPrice:    item.Price,
			Quantity:     step.Quantity,
		})
		if err != nil {
			return StepResult{}, err
		}
		result.Cart = s.commit(ctx, sess, snap)
	case menu.StepSetQuantity:
		snap, err := sess.Cart.UpdateQuantity(step.LineKey, step.Quantity)
		if err != nil {
			return StepResult{}, err
		}
		result.Cart = s.commit(ctx, sess, snap)
	case menu.StepOpenAddons:
		view, err := sess.Flow.Open(ctx, in.RestaurantID, item)
		if err != nil {
			return StepResult{}, err
		}
		result.Addons = &view
		result.Cart = sess.Cart.Snapshot()
	}
	return result, nil
}

func (s *CartService) buildAddRequest(ctx context.Context, in AddItemInput) (cart.AddRequest, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	item, err := s.menu.FindMenuItem(ctx, in.RestaurantID, in.MenuItemID)
	if err != nil {
		return cart.AddRequest{}, err
	}
	if !item.IsAvailable {
		return cart.AddRequest{}, domain.NewValidationError("menu_item_id", "item is sold out")
	}

	selected, err := s.resolveAddons(ctx, item, in.AddonIDs)
	if err != nil {
		return cart.AddRequest{}, err
	}
	return cart.AddRequest{
		RestaurantID: in.RestaurantID,
		MenuItemID:   item.ID,
		Name:         item.Name,
		UnitPrice:    item.Price,
		Quantity:     in.Quantity,
		Addons:       selected,
	}, nil
}

// resolveAddons applies the same rule as the addon flow: when the item has
// required addons at least one of them must be chosen.
func (s *CartService) resolveAddons(ctx context.Context, item domain.MenuItem, ids []string) ([]domain.SelectedAddon, error) {
	if !item.NeedsAddonSelection() {
		if len(ids) > 0 {
			return nil, domain.NewValidationError("addon_ids", "item has no addons")
		}
		return nil, nil
	}

	all, err := s.menu.Addons(ctx, item)
	if err != nil {
		return nil, err
	}
	required, optional := addons.Partition(all)

	byID := make(map[string]domain.Addon, len(required)+len(optional))
	for _, a := range required {
		byID[a.ID] = a
	}
	for _, a := range optional {
		byID[a.ID] = a
	}

	chosen := make(map[string]bool, len(ids))
	var selected []domain.SelectedAddon
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, domain.NewValidationError("addon_ids", "unknown or unavailable addon "+id)
		}
		if chosen[id] {
			continue
		}
		chosen[id] = true
		selected = append(selected, domain.SelectedAddon{ID: a.ID, Name: a.Name, Price: a.Price})
	}

	if len(required) > 0 {
		ok := false
		for _, a := range required {
			if chosen[a.ID] {
				ok = true
				break
			}
		}
		if !ok {
			return nil, domain.NewValidationError("addon_ids", "select at least one required addon")
		}
	}
	return selected, nil
}
