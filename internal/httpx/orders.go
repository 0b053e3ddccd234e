package httpx

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/nikolayk812/littlelemon/internal/domain"
)

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.PlaceOrder(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrder(order))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r.URL.Query(), domain.OrderOrderingFields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.orders.ListOrders(r.Context(), callerFrom(r.Context()), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPage(page, toOrder))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	order, err := h.orders.GetOrder(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrder(order))
}

func (h *Handler) ReplaceOrder(w http.ResponseWriter, r *http.Request) {
	h.updateOrder(w, r, h.orders.ReplaceOrder)
}

func (h *Handler) PatchOrder(w http.ResponseWriter, r *http.Request) {
	h.updateOrder(w, r, h.orders.PatchOrder)
}

type orderUpdater func(ctx context.Context, caller domain.Caller, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error)

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request, update orderUpdater) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req OrderUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	order, err := update(r.Context(), callerFrom(r.Context()), id, req.patch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrder(order))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), callerFrom(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
