package album

import (
	"time"

	"github.com/google/uuid"
)

// Album is owner-scoped: every lookup carries (id, user_id) and the slug
// is only unique per owner.
type Album struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"-"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Subtitle      string     `json:"subtitle"`
	DescriptionMD string     `json:"description_md"`
	CoverPath     *string    `json:"cover_url,omitempty"`
	Visibility    Visibility `json:"visibility"`
	Metadata      Metadata   `json:"metadata"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Visibility string

const (
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPublic   Visibility = "public"
)

func (v Visibility) IsValid() bool {
	switch v {
	case VisibilityPrivate, VisibilityUnlisted, VisibilityPublic:
		return true
	}
	return false
}

// Metadata is the free-form album document. It is replaced wholesale on
// update, never merged. The relational album_tracks rows are the
// canonical track list; the embedded one is a denormalized convenience
// for clients that want a single document.
type Metadata struct {
	Tracks []MetadataTrack `json:"tracks,omitempty"`
	Tags   []string        `json:"tags,omitempty"`
	Year   int             `json:"year,omitempty"`
}

type MetadataTrack struct {
	Title       string `json:"title"`
	RelPath     string `json:"rel_path,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
}

// Track is one album_tracks row joined with its media item. Positions
// are kept dense (1..n) per album.
type Track struct {
	ID       uuid.UUID `json:"id"`
	AlbumID  uuid.UUID `json:"-"`
	MediaID  uuid.UUID `json:"media_id"`
	Position int       `json:"position"`
	Variant  string    `json:"variant,omitempty"`
	Notes    *string   `json:"notes,omitempty"`

	// Joined from media_items.
	Title       string `json:"title"`
	RelPath     string `json:"rel_path"`
	DurationSec *int   `json:"duration_sec,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
