package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/mailchimp-bridge/internal/pkg/httputil"
)

// CreateMember handles POST /mailchimp/lists/{listId}/members
func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	p, ok := readPayload(w, r)
	if !ok {
		return
	}
	m, err := h.members.Create(r.Context(), chi.URLParam(r, "listId"), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, r, m.ToMap())
}

// ShowMember handles GET /mailchimp/lists/{listId}/members/{memberId}
func (h *Handlers) ShowMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.members.Show(r.Context(), chi.URLParam(r, "listId"), chi.URLParam(r, "memberId"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, r, m.ToMap())
}

// UpdateMember handles PUT /mailchimp/lists/{listId}/members/{memberId}
func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	p, ok := readPayload(w, r)
	if !ok {
		return
	}
	m, err := h.members.Update(r.Context(), chi.URLParam(r, "listId"), chi.URLParam(r, "memberId"), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, r, m.ToMap())
}

// RemoveMember handles DELETE /mailchimp/lists/{listId}/members/{memberId}
func (h *Handlers) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := h.members.Remove(r.Context(), chi.URLParam(r, "listId"), chi.URLParam(r, "memberId")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, r, httputil.Empty)
}
