package httpx

import "net/http"

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, total, err := h.carts.GetCart(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CartResponse{
		Items: mapAll(cart.Items, toCartItem),
		Total: price(total),
	})
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	line, err := h.carts.AddItem(r.Context(), callerFrom(r.Context()), req.MenuItem, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCartItem(line))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.carts.RemoveItem(r.Context(), callerFrom(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	removed, err := h.carts.Clear(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ClearCartResponse{Removed: removed})
}
