package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"studio-backend/internal/domains/album"
	"studio-backend/internal/infrastructure/storage"
	"studio-backend/internal/shared/utils"
)

// ObjectStorage is the slice of the storage layer this service needs.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type albumService struct {
	repo      album.Repository
	storage   ObjectStorage
	processor *storage.ImageProcessor
}

func NewAlbumService(repo album.Repository, store ObjectStorage, processor *storage.ImageProcessor) album.Service {
	return &albumService{
		repo:      repo,
		storage:   store,
		processor: processor,
	}
}

func (s *albumService) List(ctx context.Context, ownerID uuid.UUID) ([]*album.Album, error) {
	albums, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []*album.Album{}
	}
	return albums, nil
}

func (s *albumService) Create(ctx context.Context, ownerID uuid.UUID, req album.CreateAlbumRequest) (*album.Album, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, ownerID, req.Title)
	if err != nil {
		return nil, err
	}

	a := &album.Album{
		ID:         uuid.New(),
		UserID:     ownerID,
		Slug:       slug,
		Title:      req.Title,
		Subtitle:   req.Subtitle,
		Visibility: album.VisibilityPrivate,
	}
	if req.CoverURL != "" {
		a.CoverPath = &req.CoverURL
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *albumService) Get(ctx context.Context, ownerID, albumID uuid.UUID) (*album.Album, error) {
	return s.repo.GetByOwner(ctx, ownerID, albumID)
}

// Update keeps title and subtitle when the request leaves them empty;
// description, visibility, cover and metadata are replaced as submitted.
func (s *albumService) Update(ctx context.Context, ownerID, albumID uuid.UUID, req album.UpdateAlbumRequest) (*album.Album, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByOwner(ctx, ownerID, albumID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Subtitle != "" {
		a.Subtitle = req.Subtitle
	}
	if req.DescriptionMD != nil {
		a.DescriptionMD = *req.DescriptionMD
	}
	if req.Visibility != "" {
		v := album.Visibility(req.Visibility)
		if !v.IsValid() {
			return nil, album.ErrInvalidVisibility
		}
		a.Visibility = v
	}
	if req.CoverURL != nil {
		if *req.CoverURL == "" {
			a.CoverPath = nil
		} else {
			a.CoverPath = req.CoverURL
		}
	}
	if req.Metadata != nil {
		// Wholesale replacement, never a merge.
		a.Metadata = *req.Metadata
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *albumService) Delete(ctx context.Context, ownerID, albumID uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, albumID)
}

func (s *albumService) Clone(ctx context.Context, ownerID, albumID uuid.UUID) (*album.Album, error) {
	src, err := s.repo.GetByOwner(ctx, ownerID, albumID)
	if err != nil {
		return nil, err
	}

	title := src.Title + " (copy)"
	slug, err := s.uniqueSlug(ctx, ownerID, title)
	if err != nil {
		return nil, err
	}

	copy := &album.Album{
		ID:            uuid.New(),
		UserID:        ownerID,
		Slug:          slug,
		Title:         title,
		Subtitle:      src.Subtitle,
		DescriptionMD: src.DescriptionMD,
		CoverPath:     src.CoverPath,
		Visibility:    src.Visibility,
		Metadata:      src.Metadata,
	}

	if err := s.repo.Clone(ctx, src.ID, copy); err != nil {
		return nil, err
	}
	return copy, nil
}

func (s *albumService) ListTracks(ctx context.Context, ownerID, albumID uuid.UUID) ([]*album.Track, error) {
	if _, err := s.repo.GetByOwner(ctx, ownerID, albumID); err != nil {
		return nil, err
	}
	tracks, err := s.repo.ListTracks(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if tracks == nil {
		tracks = []*album.Track{}
	}
	return tracks, nil
}

func (s *albumService) AddTracks(ctx context.Context, ownerID, albumID uuid.UUID, req album.AddTracksRequest) ([]*album.Track, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByOwner(ctx, ownerID, albumID); err != nil {
		return nil, err
	}
	return s.repo.AddTracks(ctx, albumID, req.Tracks)
}

func (s *albumService) ReorderTracks(ctx context.Context, ownerID, albumID uuid.UUID, req album.ReorderTracksRequest) ([]*album.Track, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByOwner(ctx, ownerID, albumID); err != nil {
		return nil, err
	}
	if err := s.repo.ReorderTracks(ctx, albumID, req.TrackIDs); err != nil {
		return nil, err
	}
	return s.repo.ListTracks(ctx, albumID)
}

func (s *albumService) DeleteTrack(ctx context.Context, ownerID, albumID, trackID uuid.UUID) ([]*album.Track, error) {
	if _, err := s.repo.GetByOwner(ctx, ownerID, albumID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteTrack(ctx, albumID, trackID); err != nil {
		return nil, err
	}
	return s.repo.ListTracks(ctx, albumID)
}

// UploadCover validates the image and stores it under a per-album key,
// so a second upload replaces the first.
func (s *albumService) UploadCover(ctx context.Context, ownerID, albumID uuid.UUID, data []byte, contentType string) (string, error) {
	if _, err := s.repo.GetByOwner(ctx, ownerID, albumID); err != nil {
		return "", err
	}

	if err := s.processor.ValidateImage(data); err != nil {
		return "", fmt.Errorf("%w: %s", album.ErrInvalidImage, err)
	}

	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}

	key := fmt.Sprintf("album_covers/%s%s", albumID, ext)
	url, err := s.storage.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}

	if err := s.repo.UpdateCover(ctx, ownerID, albumID, url); err != nil {
		return "", err
	}
	return url, nil
}

// uniqueSlug derives the base slug from the title and probes -2, -3 and so on
// until it finds a free one for this owner.
func (s *albumService) uniqueSlug(ctx context.Context, ownerID uuid.UUID, title string) (string, error) {
	base := utils.GenerateSlug(title)

	slug := base
	for n := 2; ; n++ {
		exists, err := s.repo.SlugExists(ctx, ownerID, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
