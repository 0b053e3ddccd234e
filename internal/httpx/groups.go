package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListGroupMembers(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")

	users, err := h.groups.ListMembers(r.Context(), callerFrom(r.Context()), group)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, GroupMembersResponse{Group: group, Users: users})
}

// AddGroupMember answers 201 whether or not the user was already a member.
func (h *Handler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")

	var req GroupMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.groups.AddMember(r.Context(), callerFrom(r.Context()), group, req.Username); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, GroupMemberRequest{Username: req.Username})
}

func (h *Handler) RemoveGroupMember(w http.ResponseWriter, r *http.Request) {
	group, userID := chi.URLParam(r, "group"), chi.URLParam(r, "userID")

	if err := h.groups.RemoveMember(r.Context(), callerFrom(r.Context()), group, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
