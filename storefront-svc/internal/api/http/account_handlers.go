package httpapi

import (
	"net/http"

	"zestify-storefront/storefront-svc/internal/domain"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := decodeJSON(r, &creds); err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.Accounts.Login(r.Context(), sessionFrom(r), creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	view, err := h.Accounts.Signup(r.Context(), sessionFrom(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), sessionFrom(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getAccount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Accounts.Account(sessionFrom(r)))
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Accounts.Profile(r.Context(), sessionFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var p domain.Profile
	if err := decodeJSON(r, &p); err != nil {
		h.writeError(w, r, err)
		return
	}
	profile, err := h.Accounts.UpdateProfile(r.Context(), sessionFrom(r), p)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) getLocation(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.Accounts.Location(sessionFrom(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "No delivery location set.", Code: "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (h *Handler) setLocation(w http.ResponseWriter, r *http.Request) {
	var loc domain.Location
	if err := decodeJSON(r, &loc); err != nil {
		h.writeError(w, r, err)
		return
	}
	saved, err := h.Accounts.SetLocation(r.Context(), sessionFrom(r), loc)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
