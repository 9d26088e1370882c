package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"studio-backend/internal/domains/album"
	"studio-backend/pkg/database"
)

const uniqueViolation = "23505"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) album.Repository {
	return &postgresRepository{pool: pool}
}

const albumColumns = `
	id, user_id, slug, title, subtitle, description_md,
	cover_path, visibility, metadata, created_at, updated_at
`

func scanAlbum(row pgx.Row) (*album.Album, error) {
	var a album.Album
	var metadata []byte
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Slug,
		&a.Title,
		&a.Subtitle,
		&a.DescriptionMD,
		&a.CoverPath,
		&a.Visibility,
		&metadata,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, album.ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan album: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode album metadata: %w", err)
		}
	}
	return &a, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*album.Album, error) {
	query := `
		SELECT ` + albumColumns + `
		FROM albums
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer rows.Close()

	var albums []*album.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func (r *postgresRepository) GetByOwner(ctx context.Context, userID, albumID uuid.UUID) (*album.Album, error) {
	query := `
		SELECT ` + albumColumns + `
		FROM albums
		WHERE id = $1 AND user_id = $2
	`
	return scanAlbum(r.pool.QueryRow(ctx, query, albumID, userID))
}

func (r *postgresRepository) SlugExists(ctx context.Context, userID uuid.UUID, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM albums WHERE user_id = $1 AND slug = $2)`,
		userID, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Create(ctx context.Context, a *album.Album) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode album metadata: %w", err)
	}

	query := `
		INSERT INTO albums (id, user_id, slug, title, subtitle, description_md,
			cover_path, visibility, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		a.ID, a.UserID, a.Slug, a.Title, a.Subtitle, a.DescriptionMD,
		a.CoverPath, a.Visibility, metadata,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return album.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create album: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, a *album.Album) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode album metadata: %w", err)
	}

	query := `
		UPDATE albums
		SET title = $1, subtitle = $2, description_md = $3, cover_path = $4,
			visibility = $5, metadata = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		a.Title, a.Subtitle, a.DescriptionMD, a.CoverPath,
		a.Visibility, metadata, a.ID, a.UserID,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return album.ErrAlbumNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, userID, albumID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM albums WHERE id = $1 AND user_id = $2`, albumID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return album.ErrAlbumNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateCover(ctx context.Context, userID, albumID uuid.UUID, coverPath string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE albums SET cover_path = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		coverPath, albumID, userID)
	if err != nil {
		return fmt.Errorf("failed to update cover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return album.ErrAlbumNotFound
	}
	return nil
}

// Clone inserts the copy and duplicates the source's track rows with
// fresh ids in one transaction.
func (r *postgresRepository) Clone(ctx context.Context, sourceID uuid.UUID, copy *album.Album) error {
	metadata, err := json.Marshal(copy.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode album metadata: %w", err)
	}

	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO albums (id, user_id, slug, title, subtitle, description_md,
				cover_path, visibility, metadata)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at, updated_at
		`
		err := tx.QueryRow(ctx, query,
			copy.ID, copy.UserID, copy.Slug, copy.Title, copy.Subtitle,
			copy.DescriptionMD, copy.CoverPath, copy.Visibility, metadata,
		).Scan(&copy.CreatedAt, &copy.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return album.ErrDuplicateSlug
			}
			return fmt.Errorf("failed to insert album copy: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO album_tracks (id, album_id, media_id, position, variant, notes)
			SELECT gen_random_uuid(), $1, media_id, position, variant, notes
			FROM album_tracks
			WHERE album_id = $2
		`, copy.ID, sourceID)
		if err != nil {
			return fmt.Errorf("failed to copy track rows: %w", err)
		}
		return nil
	})
}

const trackColumns = `
	t.id, t.album_id, t.media_id, t.position, t.variant, t.notes,
	m.title, m.rel_path, m.duration_sec, t.created_at
`

func scanTrack(row pgx.Row) (*album.Track, error) {
	var t album.Track
	err := row.Scan(
		&t.ID,
		&t.AlbumID,
		&t.MediaID,
		&t.Position,
		&t.Variant,
		&t.Notes,
		&t.Title,
		&t.RelPath,
		&t.DurationSec,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	return &t, nil
}

func (r *postgresRepository) ListTracks(ctx context.Context, albumID uuid.UUID) ([]*album.Track, error) {
	query := `
		SELECT ` + trackColumns + `
		FROM album_tracks t
		JOIN media_items m ON m.id = t.media_id
		WHERE t.album_id = $1
		ORDER BY t.position
	`
	rows, err := r.pool.Query(ctx, query, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*album.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// AddTracks appends after the current last position. Unseen rel_paths
// get a media_items row on the fly; re-adding the same (media, variant)
// pair is a duplicate.
func (r *postgresRepository) AddTracks(ctx context.Context, albumID uuid.UUID, inputs []album.TrackInput) ([]*album.Track, error) {
	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var next int
		err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(position), 0) + 1 FROM album_tracks WHERE album_id = $1`,
			albumID).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to find next position: %w", err)
		}

		for _, in := range inputs {
			mediaID, err := ensureMedia(ctx, tx, in)
			if err != nil {
				return err
			}

			var notes interface{}
			if in.Notes != "" {
				notes = in.Notes
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO album_tracks (id, album_id, media_id, position, variant, notes)
				VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
			`, albumID, mediaID, next, in.Variant, notes)
			if err != nil {
				if isUniqueViolation(err) {
					return album.ErrDuplicateTrack
				}
				return fmt.Errorf("failed to insert track: %w", err)
			}
			next++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.ListTracks(ctx, albumID)
}

// ensureMedia resolves a track input to a media id, registering a row
// for a rel_path seen for the first time.
func ensureMedia(ctx context.Context, tx pgx.Tx, in album.TrackInput) (uuid.UUID, error) {
	if in.MediaID != nil {
		return *in.MediaID, nil
	}

	title := in.Title
	if title == "" {
		title = in.RelPath
	}

	var id uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO media_items (id, kind, title, rel_path)
		VALUES (gen_random_uuid(), 'audio', $1, $2)
		ON CONFLICT (rel_path) DO UPDATE SET rel_path = EXCLUDED.rel_path
		RETURNING id
	`, title, in.RelPath).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to register media item: %w", err)
	}
	return id, nil
}

// ReorderTracks rewrites positions densely following the requested
// order. Tracks the request omits keep their relative order after the
// listed ones.
func (r *postgresRepository) ReorderTracks(ctx context.Context, albumID uuid.UUID, trackIDs []uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT id FROM album_tracks WHERE album_id = $1 ORDER BY position FOR UPDATE`,
			albumID)
		if err != nil {
			return fmt.Errorf("failed to lock tracks: %w", err)
		}

		existing := make([]uuid.UUID, 0)
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan track id: %w", err)
			}
			existing = append(existing, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		onAlbum := make(map[uuid.UUID]bool, len(existing))
		for _, id := range existing {
			onAlbum[id] = true
		}

		ordered := make([]uuid.UUID, 0, len(existing))
		placed := make(map[uuid.UUID]bool, len(existing))
		for _, id := range trackIDs {
			if !onAlbum[id] {
				return album.ErrTrackNotFound
			}
			ordered = append(ordered, id)
			placed[id] = true
		}
		for _, id := range existing {
			if !placed[id] {
				ordered = append(ordered, id)
			}
		}

		// Two passes keep the (album_id, position) space free of
		// transient collisions.
		for i, id := range ordered {
			if _, err := tx.Exec(ctx,
				`UPDATE album_tracks SET position = $1 WHERE id = $2`,
				-(i + 1), id); err != nil {
				return fmt.Errorf("failed to stage position: %w", err)
			}
		}
		_, err = tx.Exec(ctx,
			`UPDATE album_tracks SET position = -position WHERE album_id = $1`,
			albumID)
		if err != nil {
			return fmt.Errorf("failed to commit positions: %w", err)
		}
		return nil
	})
}

// DeleteTrack removes a row and closes the gap so positions stay dense.
func (r *postgresRepository) DeleteTrack(ctx context.Context, albumID, trackID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var position int
		err := tx.QueryRow(ctx,
			`DELETE FROM album_tracks WHERE id = $1 AND album_id = $2 RETURNING position`,
			trackID, albumID).Scan(&position)
		if errors.Is(err, pgx.ErrNoRows) {
			return album.ErrTrackNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to delete track: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE album_tracks SET position = position - 1 WHERE album_id = $1 AND position > $2`,
			albumID, position)
		if err != nil {
			return fmt.Errorf("failed to renumber tracks: %w", err)
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
