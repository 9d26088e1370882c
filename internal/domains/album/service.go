package album

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]*Album, error)
	Create(ctx context.Context, ownerID uuid.UUID, req CreateAlbumRequest) (*Album, error)
	Get(ctx context.Context, ownerID, albumID uuid.UUID) (*Album, error)
	Update(ctx context.Context, ownerID, albumID uuid.UUID, req UpdateAlbumRequest) (*Album, error)
	Delete(ctx context.Context, ownerID, albumID uuid.UUID) error
	// Clone copies an album and its tracks into a fully independent
	// album titled "<title> (copy)" with a fresh per-owner slug.
	Clone(ctx context.Context, ownerID, albumID uuid.UUID) (*Album, error)

	ListTracks(ctx context.Context, ownerID, albumID uuid.UUID) ([]*Track, error)
	AddTracks(ctx context.Context, ownerID, albumID uuid.UUID, req AddTracksRequest) ([]*Track, error)
	ReorderTracks(ctx context.Context, ownerID, albumID uuid.UUID, req ReorderTracksRequest) ([]*Track, error)
	DeleteTrack(ctx context.Context, ownerID, albumID, trackID uuid.UUID) ([]*Track, error)

	// UploadCover stores the image under a per-album key and persists
	// the path. Returns the public URL.
	UploadCover(ctx context.Context, ownerID, albumID uuid.UUID, data []byte, contentType string) (string, error)
}
