package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"zestify-storefront/storefront-svc/internal/domain"
	"zestify-storefront/storefront-svc/internal/service"
)

const SessionHeader = "X-Session-ID"

type ctxKey struct{}

type Handler struct {
	Sessions service.SessionProvider
	Catalog  service.CatalogServiceInterface
	Cart     service.CartServiceInterface
	Addons   service.AddonServiceInterface
	Checkout service.CheckoutServiceInterface
	Accounts service.AccountServiceInterface
	Logger   zerolog.Logger
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.withSession)

	api.HandleFunc("/restaurants", h.getRestaurants).Methods("GET")
	api.HandleFunc("/restaurants/nearby", h.getNearbyRestaurants).Methods("GET")
	api.HandleFunc("/restaurants/{id}", h.getRestaurant).Methods("GET")
	api.HandleFunc("/restaurants/{id}/menu", h.getMenuPage).Methods("GET")
	api.HandleFunc("/menu-items", h.getMenuItemsByCategory).Methods("GET")
	api.HandleFunc("/menu-items/{id}/step", h.stepMenuItem).Methods("POST")

	api.HandleFunc("/cart", h.getCart).Methods("GET")
	api.HandleFunc("/cart", h.clearCart).Methods("DELETE")
	api.HandleFunc("/cart/items", h.addCartItem).Methods("POST")
	api.HandleFunc("/cart/replace", h.replaceCart).Methods("POST")
	api.HandleFunc("/cart/items/{lineKey}", h.updateCartItem).Methods("PATCH")
	api.HandleFunc("/cart/items/{lineKey}", h.removeCartItem).Methods("DELETE")
	api.HandleFunc("/cart/coupon", h.setCoupon).Methods("PUT")

	api.HandleFunc("/addon-flow", h.getAddonFlow).Methods("GET")
	api.HandleFunc("/addon-flow/open", h.openAddonFlow).Methods("POST")
	api.HandleFunc("/addon-flow/toggle", h.toggleAddon).Methods("POST")
	api.HandleFunc("/addon-flow/confirm", h.confirmAddonFlow).Methods("POST")
	api.HandleFunc("/addon-flow/cancel", h.cancelAddonFlow).Methods("POST")

	api.HandleFunc("/checkout", h.placeOrder).Methods("POST")
	api.HandleFunc("/checkouts", h.getCheckouts).Methods("GET")
	api.HandleFunc("/checkouts/{id}/retry", h.retryCheckout).Methods("POST")
	api.HandleFunc("/orders", h.getOrders).Methods("GET")
	api.HandleFunc("/orders/{id}", h.getOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/cancel", h.cancelOrder).Methods("PATCH")
	api.HandleFunc("/orders/{id}/track", h.trackOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	api.HandleFunc("/auth/login", h.login).Methods("POST")
	api.HandleFunc("/auth/signup", h.signup).Methods("POST")
	api.HandleFunc("/auth/logout", h.logout).Methods("POST")
	api.HandleFunc("/auth/me", h.getAccount).Methods("GET")
	api.HandleFunc("/profile", h.getProfile).Methods("GET")
	api.HandleFunc("/profile", h.updateProfile).Methods("PUT")
	api.HandleFunc("/location", h.getLocation).Methods("GET")
	api.HandleFunc("/location", h.setLocation).Methods("PUT")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// withSession resolves the caller's session and echoes its id back, so a
// client that sent none (or an expired one) learns the id to use next.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.Sessions.Get(r.Context(), r.Header.Get(SessionHeader))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		w.Header().Set(SessionHeader, sess.ID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func sessionFrom(r *http.Request) *service.Session {
	sess, _ := r.Context().Value(ctxKey{}).(*service.Session)
	return sess
}

type errorResponse struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	Recovery   string `json:"recovery,omitempty"`
	Action     string `json:"action,omitempty"`
	CheckoutID string `json:"checkout_id,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := classify(err)

	var failed *service.CheckoutFailedError
	if errors.As(err, &failed) {
		resp.CheckoutID = failed.CheckoutID
		resp.Retryable = failed.Retryable()
	}

	event := h.Logger.Debug()
	if status >= http.StatusInternalServerError {
		event = h.Logger.Error()
	}
	event.Err(err).Str("method", r.Method).Str("path", r.URL.Path).Int("status", status).Msg("request failed")

	writeJSON(w, status, resp)
}

func classify(err error) (int, errorResponse) {
	var (
		mismatch *domain.RestaurantMismatchError
		netErr   *domain.NetworkError
	)
	switch {
	case errors.As(err, &mismatch):
		return http.StatusConflict, errorResponse{Message: mismatch.Error(), Code: "restaurant_mismatch", Recovery: "clear_cart"}
	case errors.Is(err, domain.ErrAmbiguousLine):
		return http.StatusConflict, errorResponse{Message: domain.ErrAmbiguousLine.Error(), Code: "ambiguous_line", Action: "select_addons"}
	case errors.Is(err, domain.ErrStaleResponse):
		return http.StatusConflict, errorResponse{Message: "A newer request replaced this one.", Code: "stale_response", Action: "reload"}
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return http.StatusConflict, errorResponse{Message: domain.ErrCheckoutInProgress.Error(), Code: "checkout_in_progress", Action: "wait"}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, errorResponse{Message: validationMessage(err), Code: "validation"}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Message: messageOr(err, "Please sign in to continue."), Code: "unauthorized"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: messageOr(err, "Not found."), Code: "not_found"}
	case errors.As(err, &netErr):
		if netErr.ClientError() {
			return netErr.StatusCode, errorResponse{Message: netErr.Message, Code: "rejected"}
		}
		return http.StatusBadGateway, errorResponse{Message: netErr.Message, Code: "network"}
	}
	return http.StatusInternalServerError, errorResponse{Message: domain.GenericErrorMessage, Code: "internal"}
}

func validationMessage(err error) string {
	var v *domain.ValidationError
	if errors.As(err, &v) {
		return v.Error()
	}
	return err.Error()
}

// messageOr prefers the remote API's own message.
func messageOr(err error, fallback string) string {
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) && netErr.Message != "" {
		return netErr.Message
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return nf.Error()
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	return nil
}
