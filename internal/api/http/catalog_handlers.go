package httpapi

import (
	"io"
	"net/http"

	"kungfu-delivery/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) registerCatalogRoutes(public, admin *mux.Router) {
	public.HandleFunc("/config/canteens", h.listCanteens).Methods("GET")

	public.HandleFunc("/categories", h.listCategories).Methods("GET")
	public.HandleFunc("/categories/{id:[0-9]+}", h.getCategory).Methods("GET")
	admin.HandleFunc("/categories/admin/all", h.listAllCategories).Methods("GET")
	admin.HandleFunc("/categories/admin", h.createCategory).Methods("POST")
	admin.HandleFunc("/categories/admin/{id:[0-9]+}", h.updateCategory).Methods("PUT")
	admin.HandleFunc("/categories/admin/{id:[0-9]+}", h.disableCategory).Methods("DELETE")

	public.HandleFunc("/dishes", h.listDishes).Methods("GET")
	public.HandleFunc("/dishes/{id:[0-9]+}", h.getDish).Methods("GET")
	admin.HandleFunc("/dishes/admin/all", h.listAllDishes).Methods("GET")
	admin.HandleFunc("/dishes/admin", h.createDish).Methods("POST")
	admin.HandleFunc("/dishes/admin/{id:[0-9]+}", h.updateDish).Methods("PUT")
	admin.HandleFunc("/dishes/admin/{id:[0-9]+}", h.deleteDish).Methods("DELETE")
	admin.HandleFunc("/dishes/admin/{id:[0-9]+}/image", h.uploadDishImage).Methods("POST")

	public.HandleFunc("/combos", h.listCombos).Methods("GET")
	public.HandleFunc("/combos/{id:[0-9]+}", h.getCombo).Methods("GET")
	admin.HandleFunc("/combos/admin/all", h.listAllCombos).Methods("GET")
	admin.HandleFunc("/combos/admin", h.createCombo).Methods("POST")
	admin.HandleFunc("/combos/admin/{id:[0-9]+}", h.updateCombo).Methods("PUT")
	admin.HandleFunc("/combos/admin/{id:[0-9]+}", h.deleteCombo).Methods("DELETE")
	admin.HandleFunc("/combos/admin/{id:[0-9]+}/image", h.uploadComboImage).Methods("POST")
}

func (h *Handler) listCanteens(w http.ResponseWriter, r *http.Request) {
	canteens, err := h.Catalog.ListCanteens(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", canteens)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.ListCategories(r.Context(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", categories)
}

func (h *Handler) listAllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Catalog.ListCategories(r.Context(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", categories)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.Catalog.GetCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", category)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.Catalog.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "分类创建成功", category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in domain.CategoryInput
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	category, err := h.Catalog.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "分类更新成功", category)
}

func (h *Handler) disableCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Catalog.DisableCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "分类已禁用", nil)
}

func (h *Handler) dishFilter(r *http.Request, availableOnly bool) (domain.DishFilter, error) {
	filter := domain.DishFilter{AvailableOnly: availableOnly}
	var err error
	if filter.CategoryID, err = queryInt(r, "categoryId", 0); err != nil {
		return filter, err
	}
	if filter.CanteenID, err = queryInt(r, "canteenId", 0); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *Handler) listDishes(w http.ResponseWriter, r *http.Request) {
	h.writeDishes(w, r, true)
}

func (h *Handler) listAllDishes(w http.ResponseWriter, r *http.Request) {
	h.writeDishes(w, r, false)
}

func (h *Handler) writeDishes(w http.ResponseWriter, r *http.Request, availableOnly bool) {
	filter, err := h.dishFilter(r, availableOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dishes, err := h.Catalog.ListDishes(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", dishes)
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	dish, err := h.Catalog.GetDish(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", dish)
}

func (h *Handler) createDish(w http.ResponseWriter, r *http.Request) {
	var in domain.DishInput
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	dish, err := h.Catalog.CreateDish(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "菜品创建成功", dish)
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in domain.DishInput
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	dish, err := h.Catalog.UpdateDish(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "菜品更新成功", dish)
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteDish(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "菜品删除成功", nil)
}

func (h *Handler) uploadDishImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, func(id int, ext string, file io.Reader) (any, error) {
		return h.Catalog.SetDishImage(r.Context(), id, ext, file)
	})
}

func (h *Handler) listCombos(w http.ResponseWriter, r *http.Request) {
	combos, err := h.Catalog.ListCombos(r.Context(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", combos)
}

func (h *Handler) listAllCombos(w http.ResponseWriter, r *http.Request) {
	combos, err := h.Catalog.ListCombos(r.Context(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", combos)
}

func (h *Handler) getCombo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	combo, err := h.Catalog.GetCombo(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", combo)
}

func (h *Handler) createCombo(w http.ResponseWriter, r *http.Request) {
	var in domain.ComboInput
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	combo, err := h.Catalog.CreateCombo(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "套餐创建成功", combo)
}

func (h *Handler) updateCombo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in domain.ComboInput
	if err := h.Validator.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	combo, err := h.Catalog.UpdateCombo(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "套餐更新成功", combo)
}

func (h *Handler) deleteCombo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Catalog.DeleteCombo(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "套餐删除成功", nil)
}

func (h *Handler) uploadComboImage(w http.ResponseWriter, r *http.Request) {
	h.uploadImage(w, r, func(id int, ext string, file io.Reader) (any, error) {
		return h.Catalog.SetComboImage(r.Context(), id, ext, file)
	})
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request, save func(id int, ext string, file io.Reader) (any, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	file, ext, err := h.Validator.ImageUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	item, err := save(id, ext, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "图片上传成功", item)
}
