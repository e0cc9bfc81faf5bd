package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"zestify-storefront/storefront-svc/internal/service"
)

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code"`
}

type toggleRequest struct {
	AddonID string `json:"addon_id"`
}

type openFlowRequest struct {
	RestaurantID string `json:"restaurant_id"`
	MenuItemID   string `json:"menu_item_id"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Cart.View(sessionFrom(r)))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Cart.Clear(r.Context(), sessionFrom(r)))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var in service.AddItemInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.Cart.Add(r.Context(), sessionFrom(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) replaceCart(w http.ResponseWriter, r *http.Request) {
	var in service.AddItemInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	snap, err := h.Cart.Replace(r.Context(), sessionFrom(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "quantity: is required", Code: "validation"})
		return
	}
	snap, err := h.Cart.Update(r.Context(), sessionFrom(r), mux.Vars(r)["lineKey"], *req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Cart.Remove(r.Context(), sessionFrom(r), mux.Vars(r)["lineKey"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) setCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.Cart.SetCoupon(r.Context(), sessionFrom(r), req.Code))
}

func (h *Handler) getAddonFlow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Addons.View(sessionFrom(r)))
}

func (h *Handler) openAddonFlow(w http.ResponseWriter, r *http.Request) {
	var req openFlowRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.Addons.Open(r.Context(), sessionFrom(r), req.RestaurantID, req.MenuItemID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) toggleAddon(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.Addons.Toggle(sessionFrom(r), req.AddonID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) confirmAddonFlow(w http.ResponseWriter, r *http.Request) {
	var in service.ConfirmInput
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &in); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	snap, err := h.Addons.Confirm(r.Context(), sessionFrom(r), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handler) cancelAddonFlow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Addons.Cancel(sessionFrom(r)))
}
