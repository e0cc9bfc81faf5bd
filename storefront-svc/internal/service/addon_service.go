package service

import (
	"context"

	"zestify-storefront/storefront-svc/internal/addons"
	"zestify-storefront/storefront-svc/internal/cart"
	"zestify-storefront/storefront-svc/internal/domain"
)

type ConfirmInput struct {
	Quantity int `json:"quantity"`
	// Replace clears a cart bound to another restaurant first.
	Replace bool `json:"replace"`
}

type AddonService struct {
	menu MenuLookup
	cartWriter
}

func NewAddonService(lookup MenuLookup, sessions *SessionManager, drafts DraftQueue) *AddonService {
	return &AddonService{menu: lookup, cartWriter: cartWriter{sessions: sessions, drafts: drafts}}
}

func (s *AddonService) Open(ctx context.Context, sess *Session, restaurantID, menuItemID string) (addons.View, error) {
	item, err := s.menu.FindMenuItem(ctx, restaurantID, menuItemID)
	if err != nil {
		return addons.View{}, err
	}
	if !item.IsAvailable {
		return addons.View{}, domain.NewValidationError("menu_item_id", "item is sold out")
	}
	return sess.Flow.Open(ctx, restaurantID, item)
}

func (s *AddonService) Toggle(sess *Session, addonID string) (addons.View, error) {
	return sess.Flow.Toggle(addonID)
}

func (s *AddonService) View(sess *Session) addons.View {
	return sess.Flow.View()
}

// Confirm adds the selected item to the cart. A restaurant mismatch is
// reported before the flow closes so the selection survives the prompt.
func (s *AddonService) Confirm(ctx context.Context, sess *Session, in ConfirmInput) (domain.CartSnapshot, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 0 {
		return domain.CartSnapshot{}, domain.NewValidationError("quantity", "must be at least 1")
	}

	pending := sess.Flow.View()
	current := sess.Cart.RestaurantID()
	if !in.Replace && current != "" && pending.RestaurantID != "" && current != pending.RestaurantID {
		return domain.CartSnapshot{}, &domain.RestaurantMismatchError{
			CartRestaurantID:      current,
			RequestedRestaurantID: pending.RestaurantID,
		}
	}

	sel, err := sess.Flow.Confirm()
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	req := cart.AddRequest{
		RestaurantID: sel.RestaurantID,
		MenuItemID:   sel.Item.ID,
		Name:         sel.Item.Name,
		UnitPrice:    sel.Item.Price,
		Quantity:     in.Quantity,
		Addons:       sel.Addons,
	}
	add := sess.Cart.AddItem
	if in.Replace {
		add = sess.Cart.ReplaceWith
	}
	snap, err := add(req)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return s.commit(ctx, sess, snap), nil
}

func (s *AddonService) Cancel(sess *Session) addons.View {
	return sess.Flow.Cancel()
}
