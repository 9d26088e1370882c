package user

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	// Authenticate verifies credentials against active accounts and stamps
	// last_login on success. Failures are ErrEmailNotFound or
	// ErrInvalidPassword.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	GetMe(ctx context.Context, userID uuid.UUID) (*MeDTO, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	// UpdateProfile applies the form; avatarData, when non-empty, is
	// validated, thumbnailed and stored, and the resulting URL becomes the
	// profile avatar.
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest, avatarData []byte) (*ProfileDTO, error)
}
