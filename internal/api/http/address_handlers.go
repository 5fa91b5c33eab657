package httpapi

import (
	"net/http"

	"kungfu-delivery/internal/domain"
)

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Addresses.List(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", addresses)
}

func (h *Handler) getAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	address, err := h.Addresses.Get(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", address)
}

func (h *Handler) createAddress(w http.ResponseWriter, r *http.Request) {
	var in domain.AddressInput
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	address, err := h.Addresses.Create(r.Context(), principal(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "地址创建成功", address)
}

func (h *Handler) updateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in domain.AddressInput
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	address, err := h.Addresses.Update(r.Context(), principal(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "地址更新成功", address)
}

func (h *Handler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Addresses.Delete(r.Context(), principal(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "地址删除成功", nil)
}

func (h *Handler) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	address, err := h.Addresses.SetDefault(r.Context(), principal(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "默认地址设置成功", address)
}
