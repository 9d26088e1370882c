package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository hides the users/profiles tables. Lookups only return active
// accounts (verified, not soft-deleted); anything else is ErrUserNotFound.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error

	GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
	// SaveProfile upserts the profile row and, when nickname is non-empty,
	// updates the user's nickname in the same transaction.
	SaveProfile(ctx context.Context, userID uuid.UUID, nickname string, p *Profile) error
}
