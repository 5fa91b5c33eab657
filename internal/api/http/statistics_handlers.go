package httpapi

import (
	"net/http"

	"kungfu-delivery/internal/domain"
)

func (h *Handler) hotDishes(w http.ResponseWriter, r *http.Request) {
	h.hotItems(w, r, domain.ItemTypeDish)
}

func (h *Handler) hotCombos(w http.ResponseWriter, r *http.Request) {
	h.hotItems(w, r, domain.ItemTypeCombo)
}

// hotItems passes a zero limit through so the service applies its default.
func (h *Handler) hotItems(w http.ResponseWriter, r *http.Request, kind domain.ItemType) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.Statistics.HotItems(r.Context(), kind, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", items)
}

func (h *Handler) turnover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	buckets, err := h.Statistics.Turnover(r.Context(), q.Get("period"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", buckets)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Statistics.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", overview)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Recommend.Recommend(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", rec)
}
