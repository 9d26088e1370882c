package album

import (
	"context"

	"github.com/google/uuid"
)

// Repository hides the albums/album_tracks/media_items tables. Every
// album access is scoped by owner; a wrong owner is indistinguishable
// from a missing row.
type Repository interface {
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]*Album, error)
	GetByOwner(ctx context.Context, userID, albumID uuid.UUID) (*Album, error)
	SlugExists(ctx context.Context, userID uuid.UUID, slug string) (bool, error)
	Create(ctx context.Context, a *Album) error
	Update(ctx context.Context, a *Album) error
	Delete(ctx context.Context, userID, albumID uuid.UUID) error
	UpdateCover(ctx context.Context, userID, albumID uuid.UUID, coverPath string) error

	// Clone inserts the copy and duplicates every track row in one
	// transaction.
	Clone(ctx context.Context, sourceID uuid.UUID, copy *Album) error

	ListTracks(ctx context.Context, albumID uuid.UUID) ([]*Track, error)
	// AddTracks appends after the current last position, registering
	// media rows for unseen rel_paths.
	AddTracks(ctx context.Context, albumID uuid.UUID, inputs []TrackInput) ([]*Track, error)
	// ReorderTracks rewrites positions to a dense 1..n following the
	// given order; ids not listed keep their relative order after them.
	ReorderTracks(ctx context.Context, albumID uuid.UUID, trackIDs []uuid.UUID) error
	// DeleteTrack removes one row and renumbers the remainder densely.
	DeleteTrack(ctx context.Context, albumID, trackID uuid.UUID) error
}
