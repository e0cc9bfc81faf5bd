package domain

import "time"

type Location struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

type Restaurant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Cuisine      []string  `json:"cuisine,omitempty"`
	Rating       float64   `json:"rating"`
	DeliveryTime int       `json:"delivery_time,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	IsOpen       bool      `json:"is_open"`
	Location     *Location `json:"location,omitempty"`
}

type Addon struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	IsRequired  bool    `json:"is_required"`
	IsAvailable bool    `json:"is_available"`
}

type MenuItem struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	Category     string  `json:"category"`
	IsVeg        bool    `json:"is_veg"`
	IsAvailable  bool    `json:"is_available"`
	HasAddons    bool    `json:"has_addons"`
	Addons       []Addon `json:"addons,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
}

// NeedsAddonSelection reports whether adding the item goes through the addon flow.
func (m MenuItem) NeedsAddonSelection() bool {
	return m.HasAddons || len(m.Addons) > 0
}

type SelectedAddon struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CartLine struct {
	Key          string          `json:"key"`
	MenuItemID   string          `json:"menu_item_id"`
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	UnitPrice    float64         `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Addons       []SelectedAddon `json:"addons"`
	LineTotal    float64         `json:"line_total"`
}

type CartSnapshot struct {
	RestaurantID string     `json:"restaurant_id,omitempty"`
	Lines        []CartLine `json:"lines"`
	TotalPrice   float64    `json:"total_price"`
	ItemCount    int        `json:"item_count"`
	CouponCode   string     `json:"coupon_code,omitempty"`
	Version      uint64     `json:"version"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (s CartSnapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// DraftCart is the best-effort copy of a session cart pushed to the order service.
type DraftCart struct {
	SessionID string       `json:"session_id"`
	Cart      CartSnapshot `json:"cart"`
}

type OrderItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      float64         `json:"price"`
	Addons     []SelectedAddon `json:"addons,omitempty"`
}

type Order struct {
	ID             string      `json:"id"`
	RestaurantID   string      `json:"restaurant_id"`
	RestaurantName string      `json:"restaurant_name,omitempty"`
	Items          []OrderItem `json:"items"`
	TotalAmount    float64     `json:"total_amount"`
	Status         string      `json:"status"`
	CouponCode     string      `json:"coupon_code,omitempty"`
	AddressID      string      `json:"address_id,omitempty"`
	PaymentMethod  string      `json:"payment_method,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

type OrderRequest struct {
	RestaurantID  string      `json:"restaurant_id"`
	Items         []OrderItem `json:"items"`
	TotalAmount   float64     `json:"total_amount"`
	CouponCode    string      `json:"coupon_code,omitempty"`
	AddressID     string      `json:"address_id,omitempty"`
	PaymentMethod string      `json:"payment_method,omitempty"`
	Notes         string      `json:"notes,omitempty"`

	// sent as the Idempotency-Key header, never in the body
	IdempotencyKey string `json:"-"`
}

type OrderStatus struct {
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	ETA       string    `json:"eta,omitempty"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	CheckoutPending = "pending"
	CheckoutPlaced  = "placed"
	CheckoutFailed  = "failed"
)

type Checkout struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Payload       []byte    `json:"-"`
	Status        string    `json:"status"`
	OrderID       string    `json:"order_id,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
	Attempts      int       `json:"attempts"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Address struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Line1     string  `json:"line1"`
	Line2     string  `json:"line2,omitempty"`
	City      string  `json:"city"`
	Pincode   string  `json:"pincode,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
	IsDefault bool    `json:"is_default"`
}

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Addresses []Address `json:"addresses,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type AuthState struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile,omitempty"`
}

func (a AuthState) LoggedIn() bool {
	return a.Token != ""
}
