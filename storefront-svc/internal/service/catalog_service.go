package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"zestify-storefront/storefront-svc/internal/domain"
	"zestify-storefront/storefront-svc/internal/menu"
)

type MenuPage struct {
	Restaurant domain.Restaurant   `json:"restaurant"`
	Categories []string            `json:"categories"`
	Items      []menu.ItemView     `json:"items"`
	Cart       domain.CartSnapshot `json:"cart"`
}

type CatalogService struct {
	api CatalogAPI
}

func NewCatalogService(api CatalogAPI) *CatalogService {
	return &CatalogService{api: api}
}

func (s *CatalogService) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	return s.api.ListRestaurants(ctx)
}

// Nearby uses the given location, or the session's last known one.
func (s *CatalogService) Nearby(ctx context.Context, sess *Session, loc *domain.Location) ([]domain.Restaurant, error) {
	if loc == nil {
		stored, ok := sess.Location()
		if !ok {
			return nil, domain.NewValidationError("location", "set a delivery location first")
		}
		loc = &stored
	}
	if err := validateLocation(*loc); err != nil {
		return nil, err
	}
	return s.api.NearbyRestaurants(ctx, *loc)
}

func (s *CatalogService) Restaurant(ctx context.Context, id string) (domain.Restaurant, error) {
	if id == "" {
		return domain.Restaurant{}, domain.NewValidationError("restaurant_id", "is required")
	}
	return s.api.GetRestaurant(ctx, id)
}

// MenuPage loads the restaurant and its menu concurrently and decorates each
// item with the session's cart state.
func (s *CatalogService) MenuPage(ctx context.Context, sess *Session, restaurantID, query string, vegOnly bool) (MenuPage, error) {
	if restaurantID == "" {
		return MenuPage{}, domain.NewValidationError("restaurant_id", "is required")
	}

	var (
		restaurant domain.Restaurant
		items      []domain.MenuItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		restaurant, err = s.api.GetRestaurant(gctx, restaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.api.GetMenu(gctx, restaurantID, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return MenuPage{}, err
	}

	items = menu.Filter(items, query, vegOnly)
	snap := sess.Cart.Snapshot()
	views := menu.Present(items, snap.Lines)
	menu.SortForDisplay(views)

	return MenuPage{
		Restaurant: restaurant,
		Categories: menu.Categories(items),
		Items:      views,
		Cart:       snap,
	}, nil
}

func (s *CatalogService) MenuItemsByCategory(ctx context.Context, category string) ([]domain.MenuItem, error) {
	if category == "" {
		return nil, domain.NewValidationError("category", "is required")
	}
	return s.api.MenuItemsByCategory(ctx, category)
}

func (s *CatalogService) FindMenuItem(ctx context.Context, restaurantID, menuItemID string) (domain.MenuItem, error) {
	if restaurantID == "" || menuItemID == "" {
		return domain.MenuItem{}, domain.NewValidationError("menu_item_id", "restaurant and menu item are required")
	}
	items, err := s.api.GetMenu(ctx, restaurantID, "")
	if err != nil {
		return domain.MenuItem{}, err
	}
	for _, item := range items {
		if item.ID == menuItemID {
			if item.RestaurantID == "" {
				item.RestaurantID = restaurantID
			}
			return item, nil
		}
	}
	return domain.MenuItem{}, &domain.NotFoundError{Kind: "menu item", ID: menuItemID}
}

// Addons returns the item's embedded addons, fetching them when absent.
func (s *CatalogService) Addons(ctx context.Context, item domain.MenuItem) ([]domain.Addon, error) {
	if len(item.Addons) > 0 {
		return item.Addons, nil
	}
	if !item.HasAddons {
		return nil, nil
	}
	return s.api.GetAddons(ctx, item.ID)
}

func validateLocation(loc domain.Location) error {
	if loc.Lat < -90 || loc.Lat > 90 {
		return domain.NewValidationError("lat", "must be between -90 and 90")
	}
	if loc.Lng < -180 || loc.Lng > 180 {
		return domain.NewValidationError("lng", "must be between -180 and 180")
	}
	return nil
}
