package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"zestify-storefront/storefront-svc/internal/domain"
)

func (c *Client) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	var wire []restaurantWire
	if err := c.get(ctx, "/restaurants", nil, "", &wire, "restaurants"); err != nil {
		return nil, err
	}
	return restaurantsFrom(wire), nil
}

func (c *Client) NearbyRestaurants(ctx context.Context, loc domain.Location) ([]domain.Restaurant, error) {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	query.Set("lng", strconv.FormatFloat(loc.Lng, 'f', -1, 64))

	var wire []restaurantWire
	if err := c.get(ctx, "/restaurants/nearby", query, "", &wire, "restaurants"); err != nil {
		return nil, err
	}
	return restaurantsFrom(wire), nil
}

func (c *Client) GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	var wire restaurantWire
	if err := c.get(ctx, "/restaurants/"+url.PathEscape(id), nil, "", &wire, "restaurant"); err != nil {
		return domain.Restaurant{}, err
	}
	r := wire.toDomain()
	if r.ID == "" {
		r.ID = id
	}
	return r, nil
}

// GetMenu returns a restaurant's menu, optionally narrowed by a search query
// on the remote side.
func (c *Client) GetMenu(ctx context.Context, restaurantID, query string) ([]domain.MenuItem, error) {
	var params url.Values
	if q := strings.TrimSpace(query); q != "" {
		params = url.Values{"q": {q}}
	}

	var wire []menuItemWire
	if err := c.get(ctx, "/menu/"+url.PathEscape(restaurantID), params, "", &wire, "menu", "items", "menuItems"); err != nil {
		return nil, err
	}
	return menuItemsFrom(wire, restaurantID), nil
}

func (c *Client) MenuItemsByCategory(ctx context.Context, category string) ([]domain.MenuItem, error) {
	var wire []menuItemWire
	if err := c.get(ctx, "/menu-items", url.Values{"category": {category}}, "", &wire, "items", "menuItems"); err != nil {
		return nil, err
	}
	return menuItemsFrom(wire, ""), nil
}

func (c *Client) GetAddons(ctx context.Context, menuItemID string) ([]domain.Addon, error) {
	var wire []addonWire
	if err := c.get(ctx, "/addons/"+url.PathEscape(menuItemID), nil, "", &wire, "addons"); err != nil {
		return nil, err
	}
	addons := make([]domain.Addon, 0, len(wire))
	for _, w := range wire {
		addons = append(addons, w.toDomain())
	}
	return addons, nil
}

// CreateOrder posts the order. A non-empty req.IdempotencyKey goes out as the
// Idempotency-Key header so a resubmission is not placed twice.
func (c *Client) CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error) {
	var header http.Header
	if req.IdempotencyKey != "" {
		header = http.Header{"Idempotency-Key": {req.IdempotencyKey}}
	}

	var wire orderWire
	if err := c.sendWithHeader(ctx, http.MethodPost, "/orders", token, header, orderRequestFrom(req), &wire, "order"); err != nil {
		return domain.Order{}, err
	}
	return wire.toDomain(), nil
}

func (c *Client) ListOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var wire []orderWire
	if err := c.get(ctx, "/orders", nil, token, &wire, "orders"); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(wire))
	for _, w := range wire {
		orders = append(orders, w.toDomain())
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, token, id string) (domain.Order, error) {
	var wire orderWire
	if err := c.get(ctx, "/orders/"+url.PathEscape(id), nil, token, &wire, "order"); err != nil {
		return domain.Order{}, err
	}
	return wire.toDomain(), nil
}

func (c *Client) CancelOrder(ctx context.Context, token, id string) (domain.Order, error) {
	var wire orderWire
	if err := c.send(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id)+"/cancel", token, nil, &wire, "order"); err != nil {
		return domain.Order{}, err
	}
	order := wire.toDomain()
	if order.ID == "" {
		order.ID = id
	}
	return order, nil
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (domain.AuthState, error) {
	var wire authWire
	if err := c.send(ctx, http.MethodPost, "/auth/login", "", creds, &wire); err != nil {
		return domain.AuthState{}, err
	}
	return authFrom(wire)
}

func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (domain.AuthState, error) {
	var wire authWire
	if err := c.send(ctx, http.MethodPost, "/auth/signup", "", req, &wire); err != nil {
		return domain.AuthState{}, err
	}
	return authFrom(wire)
}

func (c *Client) GetProfile(ctx context.Context, token string) (domain.Profile, error) {
	var wire profileWire
	if err := c.get(ctx, "/profile", nil, token, &wire, "user", "profile"); err != nil {
		return domain.Profile{}, err
	}
	return wire.toDomain(), nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, p domain.Profile) (domain.Profile, error) {
	update := profileUpdateWire{Name: p.Name, Email: p.Email, Phone: p.Phone, Addresses: p.Addresses}

	var wire profileWire
	if err := c.send(ctx, http.MethodPut, "/profile", token, update, &wire, "user", "profile"); err != nil {
		return domain.Profile{}, err
	}
	return wire.toDomain(), nil
}

// PushDraft satisfies cart.DraftSink over HTTP.
func (c *Client) PushDraft(ctx context.Context, draft domain.DraftCart) error {
	return c.send(ctx, http.MethodPut, "/orders/draft", "", draft, nil)
}

func authFrom(wire authWire) (domain.AuthState, error) {
	state := wire.toDomain()
	if state.Token == "" {
		return domain.AuthState{}, &domain.NetworkError{Message: "login response carried no token"}
	}
	return state, nil
}

func restaurantsFrom(wire []restaurantWire) []domain.Restaurant {
	out := make([]domain.Restaurant, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toDomain())
	}
	return out
}

func menuItemsFrom(wire []menuItemWire, restaurantID string) []domain.MenuItem {
	out := make([]domain.MenuItem, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toDomain(restaurantID))
	}
	return out
}
