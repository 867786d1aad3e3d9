package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/tradedocs/backend/internal/domain/shared"
)

// UserRepository persists users with their role set. Lookups by username
// ignore case.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// FindAll and Count honour the search text, the "status" and "role"
	// filters, and paging.
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save upserts the user and replaces its roles.
	Save(ctx context.Context, user *User) error
}
