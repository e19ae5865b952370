package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/mailchimp-bridge/internal/pkg/httputil"
)

// CreateList handles POST /mailchimp/lists
func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	p, ok := readPayload(w, r)
	if !ok {
		return
	}
	l, err := h.lists.Create(r.Context(), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, r, l.ToMap())
}

// ShowList handles GET /mailchimp/lists/{listId}
func (h *Handlers) ShowList(w http.ResponseWriter, r *http.Request) {
	l, err := h.lists.Show(r.Context(), chi.URLParam(r, "listId"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, r, l.ToMap())
}

// UpdateList handles PUT /mailchimp/lists/{listId}
func (h *Handlers) UpdateList(w http.ResponseWriter, r *http.Request) {
	p, ok := readPayload(w, r)
	if !ok {
		return
	}
	l, err := h.lists.Update(r.Context(), chi.URLParam(r, "listId"), p)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, r, l.ToMap())
}

// RemoveList handles DELETE /mailchimp/lists/{listId}
func (h *Handlers) RemoveList(w http.ResponseWriter, r *http.Request) {
	if err := h.lists.Remove(r.Context(), chi.URLParam(r, "listId")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, r, httputil.Empty)
}
