package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"zestify-storefront/storefront-svc/internal/domain"
	"zestify-storefront/storefront-svc/internal/service"
)

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Catalog.Restaurants(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

// getNearbyRestaurants reads lat/lng from the query, falling back to the
// session's saved location when both are absent.
func (h *Handler) getNearbyRestaurants(w http.ResponseWriter, r *http.Request) {
	var loc *domain.Location
	q := r.URL.Query()
	if q.Get("lat") != "" || q.Get("lng") != "" {
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
		if errLat != nil || errLng != nil {
			h.writeError(w, r, domain.NewValidationError("lat,lng", "must both be numbers"))
			return
		}
		loc = &domain.Location{Lat: lat, Lng: lng}
	}

	restaurants, err := h.Catalog.Nearby(r.Context(), sessionFrom(r), loc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Catalog.Restaurant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) getMenuPage(w http.ResponseWriter, r *http.Request) {
	vegOnly := false
	if v := r.URL.Query().Get("veg"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, r, domain.NewValidationError("veg", "must be true or false"))
			return
		}
		vegOnly = parsed
	}

	page, err := h.Catalog.MenuPage(r.Context(), sessionFrom(r), mux.Vars(r)["id"], r.URL.Query().Get("q"), vegOnly)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) getMenuItemsByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.MenuItemsByCategory(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) stepMenuItem(w http.ResponseWriter, r *http.Request) {
	var in service.StepInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	in.MenuItemID = mux.Vars(r)["id"]

	res, err := h.Cart.Step(r.Context(), sessionFrom(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
