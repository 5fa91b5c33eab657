package httpapi

import (
	"net/http"

	"kungfu-delivery/internal/domain"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.Cart.Get(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", cart)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var in domain.AddCartItem
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.Cart.AddItem(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "商品已添加到购物车", line)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in domain.UpdateCartItem
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	line, err := h.Cart.UpdateItem(r.Context(), principal(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "购物车商品已更新", line)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Cart.RemoveItem(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "商品已从购物车移除", nil)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.Cart.Clear(r.Context(), principal(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "购物车已清空", nil)
}
