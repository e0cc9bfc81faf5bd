package service

import (
	"context"

	"zestify-storefront/storefront-svc/internal/addons"
	"zestify-storefront/storefront-svc/internal/domain"
)

type CatalogAPI interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	NearbyRestaurants(ctx context.Context, loc domain.Location) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (domain.Restaurant, error)
	GetMenu(ctx context.Context, restaurantID, query string) ([]domain.MenuItem, error)
	MenuItemsByCategory(ctx context.Context, category string) ([]domain.MenuItem, error)
	GetAddons(ctx context.Context, menuItemID string) ([]domain.Addon, error)
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, token string, req domain.OrderRequest) (domain.Order, error)
	ListOrders(ctx context.Context, token string) ([]domain.Order, error)
	GetOrder(ctx context.Context, token, id string) (domain.Order, error)
	CancelOrder(ctx context.Context, token, id string) (domain.Order, error)
}

type AccountAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.AuthState, error)
	Signup(ctx context.Context, req domain.SignupRequest) (domain.AuthState, error)
	GetProfile(ctx context.Context, token string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, token string, p domain.Profile) (domain.Profile, error)
}

type SessionRepository interface {
	SaveCart(ctx context.Context, sessionID string, snap domain.CartSnapshot) error
	LoadCart(ctx context.Context, sessionID string) (domain.CartSnapshot, error)
	SaveAuth(ctx context.Context, sessionID string, auth domain.AuthState) error
	LoadAuth(ctx context.Context, sessionID string) (domain.AuthState, error)
	SaveLocation(ctx context.Context, sessionID string, loc domain.Location) error
	LoadLocation(ctx context.Context, sessionID string) (domain.Location, error)
	ClearSession(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

type OrderStatusCache interface {
	OrderStatus(ctx context.Context, orderID string) (domain.OrderStatus, error)
}

type CheckoutRepository interface {
	CreateCheckout(ctx context.Context, c *domain.Checkout) error
	MarkPlaced(ctx context.Context, id, orderID string) error
	MarkFailed(ctx context.Context, id, reason string) error
	GetCheckout(ctx context.Context, id string) (domain.Checkout, error)
	ListCheckouts(ctx context.Context, sessionID string) ([]domain.Checkout, error)
}

type DraftQueue interface {
	Enqueue(sessionID string, snap domain.CartSnapshot)
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

type MenuLookup interface {
	FindMenuItem(ctx context.Context, restaurantID, menuItemID string) (domain.MenuItem, error)
	Addons(ctx context.Context, item domain.MenuItem) ([]domain.Addon, error)
}

type SessionProvider interface {
	Get(ctx context.Context, id string) (*Session, error)
}

type CatalogServiceInterface interface {
	Restaurants(ctx context.Context) ([]domain.Restaurant, error)
	Nearby(ctx context.Context, sess *Session, loc *domain.Location) ([]domain.Restaurant, error)
	Restaurant(ctx context.Context, id string) (domain.Restaurant, error)
	MenuPage(ctx context.Context, sess *Session, restaurantID, query string, vegOnly bool) (MenuPage, error)
	MenuItemsByCategory(ctx context.Context, category string) ([]domain.MenuItem, error)
}

type CartServiceInterface interface {
	View(sess *Session) domain.CartSnapshot
	Add(ctx context.Context, sess *Session, in AddItemInput) (domain.CartSnapshot, error)
	Replace(ctx context.Context, sess *Session, in AddItemInput) (domain.CartSnapshot, error)
	Update(ctx context.Context, sess *Session, lineKey string, quantity int) (domain.CartSnapshot, error)
	Remove(ctx context.Context, sess *Session, lineKey string) (domain.CartSnapshot, error)
	Clear(ctx context.Context, sess *Session) domain.CartSnapshot
	SetCoupon(ctx context.Context, sess *Session, code string) domain.CartSnapshot
	Step(ctx context.Context, sess *Session, in StepInput) (StepResult, error)
}

type AddonServiceInterface interface {
	Open(ctx context.Context, sess *Session, restaurantID, menuItemID string) (addons.View, error)
	Toggle(sess *Session, addonID string) (addons.View, error)
	View(sess *Session) addons.View
	Confirm(ctx context.Context, sess *Session, in ConfirmInput) (domain.CartSnapshot, error)
	Cancel(sess *Session) addons.View
}

type CheckoutServiceInterface interface {
	Place(ctx context.Context, sess *Session, in CheckoutInput) (CheckoutResult, error)
	Retry(ctx context.Context, sess *Session, checkoutID string) (CheckoutResult, error)
	Checkouts(ctx context.Context, sess *Session) ([]domain.Checkout, error)
	Orders(ctx context.Context, sess *Session) ([]domain.Order, error)
	Order(ctx context.Context, sess *Session, id string) (domain.Order, error)
	Cancel(ctx context.Context, sess *Session, id string) (domain.Order, error)
	Track(ctx context.Context, sess *Session, id string) (domain.OrderStatus, error)
	QRCode(ctx context.Context, sess *Session, id string) ([]byte, error)
}

type AccountServiceInterface interface {
	Login(ctx context.Context, sess *Session, creds domain.Credentials) (AccountView, error)
	Signup(ctx context.Context, sess *Session, req domain.SignupRequest) (AccountView, error)
	Logout(ctx context.Context, sess *Session) error
	Account(sess *Session) AccountView
	Profile(ctx context.Context, sess *Session) (domain.Profile, error)
	UpdateProfile(ctx context.Context, sess *Session, p domain.Profile) (domain.Profile, error)
	SetLocation(ctx context.Context, sess *Session, loc domain.Location) (domain.Location, error)
	Location(sess *Session) (domain.Location, bool)
}

var (
	_ SessionProvider          = (*SessionManager)(nil)
	_ MenuLookup               = (*CatalogService)(nil)
	_ CatalogServiceInterface  = (*CatalogService)(nil)
	_ CartServiceInterface     = (*CartService)(nil)
	_ AddonServiceInterface    = (*AddonService)(nil)
	_ CheckoutServiceInterface = (*CheckoutService)(nil)
	_ AccountServiceInterface  = (*AccountService)(nil)
)
