package list

import (
	"context"

	"github.com/ignite/mailchimp-bridge/internal/domain"
)

// Repository defines the data access contract for lists.
// Find returns (nil, nil) when the list does not exist.
type Repository interface {
	Find(ctx context.Context, id string) (*domain.List, error)

	// Save inserts the list when its ID is empty (assigning one) and updates
	// it otherwise.
	Save(ctx context.Context, l *domain.List) error

	// Remove deletes the list and, through the foreign key, its members.
	Remove(ctx context.Context, l *domain.List) error
}
