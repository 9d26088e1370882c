package album

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateAlbumRequest struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	CoverURL string `json:"cover_url"`
}

func (r CreateAlbumRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Subtitle, validation.Length(0, 255)),
	)
}

// UpdateAlbumRequest is partial on title/subtitle (empty keeps the
// current value) and wholesale on everything else.
type UpdateAlbumRequest struct {
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle"`
	DescriptionMD *string   `json:"description_md"`
	Visibility    string    `json:"visibility"`
	CoverURL      *string   `json:"cover_url"`
	Metadata      *Metadata `json:"metadata"`
}

func (r UpdateAlbumRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(0, 255)),
		validation.Field(&r.Subtitle, validation.Length(0, 255)),
		validation.Field(&r.Visibility,
			validation.In("", "private", "unlisted", "public")),
	)
}

// AddTracksRequest appends tracks to an album. Each item names either an
// existing media id or a rel_path that gets a media row on first sight.
type AddTracksRequest struct {
	Tracks []TrackInput `json:"tracks"`
}

type TrackInput struct {
	MediaID *uuid.UUID `json:"media_id"`
	RelPath string     `json:"rel_path"`
	Title   string     `json:"title"`
	Variant string     `json:"variant"`
	Notes   string     `json:"notes"`
}

func (r AddTracksRequest) Validate() error {
	if len(r.Tracks) == 0 {
		return validation.NewError("validation_tracks", "at least one track is required")
	}
	for _, t := range r.Tracks {
		if t.MediaID == nil && t.RelPath == "" {
			return validation.NewError("validation_tracks", "each track needs media_id or rel_path")
		}
	}
	return nil
}

// ReorderTracksRequest lists every track id on the album in the desired
// order. The server renumbers to a dense 1..n regardless of what the
// client sends.
type ReorderTracksRequest struct {
	TrackIDs []uuid.UUID `json:"track_ids"`
}

func (r ReorderTracksRequest) Validate() error {
	if len(r.TrackIDs) == 0 {
		return validation.NewError("validation_track_ids", "track_ids is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(r.TrackIDs))
	for _, id := range r.TrackIDs {
		if _, dup := seen[id]; dup {
			return validation.NewError("validation_track_ids", "duplicate track id")
		}
		seen[id] = struct{}{}
	}
	return nil
}
