package httpx

import (
	"net/http"

	"github.com/nikolayk812/littlelemon/internal/domain"
	"github.com/nikolayk812/littlelemon/internal/service"
	"golang.org/x/text/currency"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapAll(categories, toCategory))
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	category, err := h.catalog.GetCategory(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCategory(category))
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), callerFrom(r.Context()), req.Title)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategory(category))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), callerFrom(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r.URL.Query(), domain.MenuItemOrderingFields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.catalog.ListMenuItems(r.Context(), callerFrom(r.Context()), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPage(page, toMenuItem))
}

func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.catalog.GetMenuItem(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItem(item))
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	in, err := decodeMenuItem(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.catalog.CreateMenuItem(r.Context(), callerFrom(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMenuItem(item))
}

func (h *Handler) ReplaceMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	in, err := decodeMenuItem(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.catalog.ReplaceMenuItem(r.Context(), callerFrom(r.Context()), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItem(item))
}

func (h *Handler) PatchMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req MenuItemPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	// the service prices the amount in the store currency
	patch := domain.MenuItemPatch{Title: req.Title, Featured: req.Featured, CategoryID: req.Category}
	if req.Price != nil {
		p := domain.NewMoney(*req.Price, currency.Unit{})
		patch.Price = &p
	}

	item, err := h.catalog.PatchMenuItem(r.Context(), callerFrom(r.Context()), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItem(item))
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.catalog.DeleteMenuItem(r.Context(), callerFrom(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeMenuItem(w http.ResponseWriter, r *http.Request) (service.MenuItemInput, error) {
	var req MenuItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return service.MenuItemInput{}, err
	}

	if req.Price == nil {
		return service.MenuItemInput{}, domain.Invalid("price is required")
	}
	if req.Featured == nil {
		return service.MenuItemInput{}, domain.Invalid("featured is required")
	}

	return service.MenuItemInput{
		Title:      req.Title,
		Price:      *req.Price,
		Featured:   *req.Featured,
		CategoryID: req.Category,
	}, nil
}
