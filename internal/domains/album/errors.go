package album

import "errors"

var (
	// ErrAlbumNotFound covers both rows that do not exist and rows owned
	// by another user; callers never learn which.
	ErrAlbumNotFound = errors.New("album not found")
	ErrTrackNotFound = errors.New("track not found")

	ErrDuplicateSlug  = errors.New("slug already in use for this owner")
	ErrDuplicateTrack = errors.New("track already on this album")

	ErrInvalidVisibility = errors.New("invalid visibility")
	ErrInvalidImage      = errors.New("invalid cover image")
)
