package apiclient

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"zestify-storefront/storefront-svc/internal/domain"
)

// Wire types mirror the remote JSON. Identifiers are normalised here and
// nowhere else.

type restaurantWire struct {
	ID           domain.FlexID   `json:"id"`
	MongoID      domain.FlexID   `json:"_id"`
	Name         string          `json:"name"`
	Address      json.RawMessage `json:"address"`
	Cuisine      json.RawMessage `json:"cuisine"`
	Rating       float64         `json:"rating"`
	DeliveryTime json.RawMessage `json:"deliveryTime"`
	Image        string          `json:"image"`
	ImageURL     string          `json:"imageUrl"`
	IsOpen       *bool           `json:"isOpen"`
	Location     json.RawMessage `json:"location"`
}

func (w restaurantWire) toDomain() domain.Restaurant {
	return domain.Restaurant{
		ID:           domain.CanonicalID(w.ID, w.MongoID),
		Name:         w.Name,
		Address:      textOf(w.Address, "street", "area", "city"),
		Cuisine:      stringsOf(w.Cuisine),
		Rating:       w.Rating,
		DeliveryTime: intOf(w.DeliveryTime),
		ImageURL:     firstNonEmpty(w.ImageURL, w.Image),
		IsOpen:       boolOr(w.IsOpen, true),
		Location:     locationOf(w.Location),
	}
}

type addonWire struct {
	ID          domain.FlexID `json:"id"`
	MongoID     domain.FlexID `json:"_id"`
	Name        string        `json:"name"`
	Price       float64       `json:"price"`
	IsRequired  bool          `json:"isRequired"`
	IsAvailable *bool         `json:"isAvailable"`
}

func (w addonWire) toDomain() domain.Addon {
	return domain.Addon{
		ID:          domain.CanonicalID(w.ID, w.MongoID),
		Name:        w.Name,
		Price:       w.Price,
		IsRequired:  w.IsRequired,
		IsAvailable: boolOr(w.IsAvailable, true),
	}
}

type menuItemWire struct {
	ID           domain.FlexID   `json:"id"`
	MongoID      domain.FlexID   `json:"_id"`
	Restaurant   domain.FlexID   `json:"restaurant"`
	RestaurantID domain.FlexID   `json:"restaurantId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        float64         `json:"price"`
	Category     json.RawMessage `json:"category"`
	IsVeg        bool            `json:"isVeg"`
	IsAvailable  *bool           `json:"isAvailable"`
	HasAddons    bool            `json:"hasAddons"`
	Addons       []addonWire     `json:"addons"`
	Image        string          `json:"image"`
	ImageURL     string          `json:"imageUrl"`
}

func (w menuItemWire) toDomain(fallbackRestaurantID string) domain.MenuItem {
	item := domain.MenuItem{
		ID:           domain.CanonicalID(w.ID, w.MongoID),
		RestaurantID: domain.CanonicalID(w.RestaurantID, w.Restaurant, domain.FlexID(fallbackRestaurantID)),
		Name:         w.Name,
		Description:  w.Description,
		Price:        w.Price,
		Category:     textOf(w.Category, "name"),
		IsVeg:        w.IsVeg,
		IsAvailable:  boolOr(w.IsAvailable, true),
		HasAddons:    w.HasAddons || len(w.Addons) > 0,
		ImageURL:     firstNonEmpty(w.ImageURL, w.Image),
	}
	for _, a := range w.Addons {
		item.Addons = append(item.Addons, a.toDomain())
	}
	return item
}

type orderItemWire struct {
	MenuItem   domain.FlexID          `json:"menuItem"`
	MenuItemID domain.FlexID          `json:"menuItemId"`
	Name       string                 `json:"name"`
	Quantity   int                    `json:"quantity"`
	Price      float64                `json:"price"`
	Addons     []domain.SelectedAddon `json:"addons"`
}

type orderWire struct {
	ID             domain.FlexID   `json:"id"`
	MongoID        domain.FlexID   `json:"_id"`
	Restaurant     json.RawMessage `json:"restaurant"`
	RestaurantID   domain.FlexID   `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	Items          []orderItemWire `json:"items"`
	TotalAmount    float64         `json:"totalAmount"`
	TotalPrice     float64         `json:"totalPrice"`
	Status         string          `json:"status"`
	CouponCode     string          `json:"couponCode"`
	Address        domain.FlexID   `json:"address"`
	AddressID      domain.FlexID   `json:"addressId"`
	PaymentMethod  string          `json:"paymentMethod"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (w orderWire) toDomain() domain.Order {
	var restaurantRef domain.FlexID
	_ = json.Unmarshal(nonNull(w.Restaurant), &restaurantRef)

	order := domain.Order{
		ID:             domain.CanonicalID(w.ID, w.MongoID),
		RestaurantID:   domain.CanonicalID(w.RestaurantID, restaurantRef),
		RestaurantName: firstNonEmpty(w.RestaurantName, textOf(w.Restaurant, "name")),
		TotalAmount:    w.TotalAmount,
		Status:         w.Status,
		CouponCode:     w.CouponCode,
		AddressID:      domain.CanonicalID(w.AddressID, w.Address),
		PaymentMethod:  w.PaymentMethod,
		CreatedAt:      w.CreatedAt,
		Items:          []domain.OrderItem{},
	}
	if order.TotalAmount == 0 {
		order.TotalAmount = w.TotalPrice
	}
	// a restaurant reference given as a bare id is not a name
	if order.RestaurantName == order.RestaurantID {
		order.RestaurantName = ""
	}
	for _, it := range w.Items {
		order.Items = append(order.Items, domain.OrderItem{
			MenuItemID: domain.CanonicalID(it.MenuItemID, it.MenuItem),
			Name:       it.Name,
			Quantity:   it.Quantity,
			Price:      it.Price,
			Addons:     it.Addons,
		})
	}
	return order
}

type orderRequestWire struct {
	Restaurant    string          `json:"restaurant"`
	Items         []orderLineWire `json:"items"`
	TotalAmount   float64         `json:"totalAmount"`
	CouponCode    string          `json:"couponCode,omitempty"`
	Address       string          `json:"address,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

type orderLineWire struct {
	MenuItem string                 `json:"menuItem"`
	Name     string                 `json:"name"`
	Quantity int                    `json:"quantity"`
	Price    float64                `json:"price"`
	Addons   []domain.SelectedAddon `json:"addons,omitempty"`
}

func orderRequestFrom(req domain.OrderRequest) orderRequestWire {
	w := orderRequestWire{
		Restaurant:    req.RestaurantID,
		TotalAmount:   req.TotalAmount,
		CouponCode:    req.CouponCode,
		Address:       req.AddressID,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	for _, it := range req.Items {
		w.Items = append(w.Items, orderLineWire{
			MenuItem: it.MenuItemID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Addons:   it.Addons,
		})
	}
	return w
}

type addressWire struct {
	ID        domain.FlexID `json:"id"`
	MongoID   domain.FlexID `json:"_id"`
	Label     string        `json:"label"`
	Line1     string        `json:"line1"`
	Street    string        `json:"street"`
	Line2     string        `json:"line2"`
	City      string        `json:"city"`
	Pincode   string        `json:"pincode"`
	Lat       float64       `json:"lat"`
	Lng       float64       `json:"lng"`
	IsDefault bool          `json:"isDefault"`
}

type profileWire struct {
	ID        domain.FlexID `json:"id"`
	MongoID   domain.FlexID `json:"_id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Addresses []addressWire `json:"addresses"`
}

func (w profileWire) toDomain() domain.Profile {
	p := domain.Profile{
		ID:    domain.CanonicalID(w.ID, w.MongoID),
		Name:  w.Name,
		Email: w.Email,
		Phone: w.Phone,
	}
	for _, a := range w.Addresses {
		p.Addresses = append(p.Addresses, domain.Address{
			ID:        domain.CanonicalID(a.ID, a.MongoID),
			Label:     a.Label,
			Line1:     firstNonEmpty(a.Line1, a.Street),
			Line2:     a.Line2,
			City:      a.City,
			Pincode:   a.Pincode,
			Lat:       a.Lat,
			Lng:       a.Lng,
			IsDefault: a.IsDefault,
		})
	}
	return p
}

type profileUpdateWire struct {
	Name      string           `json:"name,omitempty"`
	Email     string           `json:"email,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Addresses []domain.Address `json:"addresses,omitempty"`
}

type authWire struct {
	Token       string       `json:"token"`
	AccessToken string       `json:"accessToken"`
	User        *profileWire `json:"user"`
}

func (w authWire) toDomain() domain.AuthState {
	state := domain.AuthState{Token: firstNonEmpty(w.Token, w.AccessToken)}
	if w.User != nil {
		p := w.User.toDomain()
		state.Profile = &p
	}
	return state
}

func nonNull(raw json.RawMessage) []byte {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []byte("null")
	}
	return raw
}

// textOf reads a string, or joins the named string fields of an object.
func textOf(raw json.RawMessage, fields ...string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	var parts []string
	for _, f := range fields {
		if v, ok := obj[f].(string); ok && strings.TrimSpace(v) != "" {
			parts = append(parts, strings.TrimSpace(v))
		}
	}
	return strings.Join(parts, ", ")
}

func stringsOf(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// intOf reads a number or the leading digits of a string like "30-40 mins".
func intOf(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

// locationOf accepts {lat,lng} or GeoJSON {coordinates:[lng,lat]}.
func locationOf(raw json.RawMessage) *domain.Location {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var loc struct {
		Lat         *float64  `json:"lat"`
		Lng         *float64  `json:"lng"`
		Coordinates []float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil
	}
	switch {
	case loc.Lat != nil && loc.Lng != nil:
		return &domain.Location{Lat: *loc.Lat, Lng: *loc.Lng}
	case len(loc.Coordinates) == 2:
		return &domain.Location{Lat: loc.Coordinates[1], Lng: loc.Coordinates[0]}
	}
	return nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
