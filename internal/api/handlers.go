package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/ignite/mailchimp-bridge/internal/domain"
	"github.com/ignite/mailchimp-bridge/internal/pkg/httputil"
)

// ListService is the list use case surface the handlers call.
type ListService interface {
	Create(ctx context.Context, p domain.Payload) (*domain.List, error)
	Show(ctx context.Context, listID string) (*domain.List, error)
	Update(ctx context.Context, listID string, p domain.Payload) (*domain.List, error)
	Remove(ctx context.Context, listID string) error
}

// MemberService is the member use case surface the handlers call.
type MemberService interface {
	Create(ctx context.Context, listID string, p domain.Payload) (*domain.Member, error)
	Show(ctx context.Context, listID, memberID string) (*domain.Member, error)
	Update(ctx context.Context, listID, memberID string, p domain.Payload) (*domain.Member, error)
	Remove(ctx context.Context, listID, memberID string) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	lists   ListService
	members MemberService
}

// NewHandlers creates a new Handlers instance
func NewHandlers(lists ListService, members MemberService) *Handlers {
	return &Handlers{lists: lists, members: members}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	httputil.JSON(w, r, status, data)
}

// readPayload decodes the request body. On failure it writes the 400 response
// and returns false.
func readPayload(w http.ResponseWriter, r *http.Request) (domain.Payload, bool) {
	body, err := httputil.ReadBody(w, r)
	if errors.Is(err, httputil.ErrBodyTooLarge) {
		httputil.Invalid(w, r, domain.InvalidDataMessage, map[string][]string{
			"body": {"The body may not be greater than 1 MB."},
		})
		return nil, false
	}
	if err != nil {
		httputil.Invalid(w, r, domain.InvalidDataMessage, map[string][]string{
			"body": {"The body could not be read."},
		})
		return nil, false
	}
	p, err := domain.ParsePayload(body)
	if err != nil {
		httputil.Invalid(w, r, domain.InvalidDataMessage, map[string][]string{
			"body": {"The body must be a JSON object."},
		})
		return nil, false
	}
	return p, true
}
