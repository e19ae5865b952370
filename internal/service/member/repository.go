package member

import (
	"context"

	"github.com/ignite/mailchimp-bridge/internal/domain"
)

// Criteria selects one member. Both fields must match.
type Criteria struct {
	MemberID string
	ListID   string
}

// Repository defines the data access contract for members.
// Lookups return (nil, nil) when nothing matches.
type Repository interface {
	FindOneBy(ctx context.Context, c Criteria) (*domain.Member, error)

	// Save inserts the member when its ID is empty (assigning one) and
	// updates it otherwise. Returns domain.ErrDuplicateMember when the email
	// address is already on the list.
	Save(ctx context.Context, m *domain.Member) error

	Remove(ctx context.Context, m *domain.Member) error
}

// ListFinder loads the parent list of a member.
type ListFinder interface {
	Find(ctx context.Context, id string) (*domain.List, error)
}
