package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studio-backend/internal/domains/album"
	"studio-backend/internal/infrastructure/storage"
)

// fakeRepository is an in-memory album.Repository honoring the same
// contract as the postgres implementation: ownership scoping, per-owner
// slug uniqueness, dense track positions.
type fakeRepository struct {
	albums map[uuid.UUID]*album.Album
	tracks map[uuid.UUID][]*album.Track
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		albums: make(map[uuid.UUID]*album.Album),
		tracks: make(map[uuid.UUID][]*album.Track),
	}
}

func (f *fakeRepository) ListByOwner(_ context.Context, userID uuid.UUID) ([]*album.Album, error) {
	var out []*album.Album
	for _, a := range f.albums {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepository) GetByOwner(_ context.Context, userID, albumID uuid.UUID) (*album.Album, error) {
	a, ok := f.albums[albumID]
	if !ok || a.UserID != userID {
		return nil, album.ErrAlbumNotFound
	}
	copy := *a
	return &copy, nil
}

func (f *fakeRepository) SlugExists(_ context.Context, userID uuid.UUID, slug string) (bool, error) {
	for _, a := range f.albums {
		if a.UserID == userID && a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) Create(_ context.Context, a *album.Album) error {
	copy := *a
	f.albums[a.ID] = &copy
	return nil
}

func (f *fakeRepository) Update(_ context.Context, a *album.Album) error {
	if _, ok := f.albums[a.ID]; !ok {
		return album.ErrAlbumNotFound
	}
	copy := *a
	f.albums[a.ID] = &copy
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, userID, albumID uuid.UUID) error {
	a, ok := f.albums[albumID]
	if !ok || a.UserID != userID {
		return album.ErrAlbumNotFound
	}
	delete(f.albums, albumID)
	delete(f.tracks, albumID)
	return nil
}

func (f *fakeRepository) UpdateCover(_ context.Context, userID, albumID uuid.UUID, coverPath string) error {
	a, ok := f.albums[albumID]
	if !ok || a.UserID != userID {
		return album.ErrAlbumNotFound
	}
	a.CoverPath = &coverPath
	return nil
}

func (f *fakeRepository) Clone(_ context.Context, sourceID uuid.UUID, copy *album.Album) error {
	c := *copy
	f.albums[copy.ID] = &c
	for _, t := range f.tracks[sourceID] {
		dup := *t
		dup.ID = uuid.New()
		dup.AlbumID = copy.ID
		f.tracks[copy.ID] = append(f.tracks[copy.ID], &dup)
	}
	return nil
}

func (f *fakeRepository) ListTracks(_ context.Context, albumID uuid.UUID) ([]*album.Track, error) {
	out := make([]*album.Track, len(f.tracks[albumID]))
	for i, t := range f.tracks[albumID] {
		copy := *t
		out[i] = &copy
	}
	return out, nil
}

func (f *fakeRepository) AddTracks(_ context.Context, albumID uuid.UUID, inputs []album.TrackInput) ([]*album.Track, error) {
	next := len(f.tracks[albumID]) + 1
	for _, in := range inputs {
		mediaID := uuid.New()
		if in.MediaID != nil {
			mediaID = *in.MediaID
		}
		f.tracks[albumID] = append(f.tracks[albumID], &album.Track{
			ID:       uuid.New(),
			AlbumID:  albumID,
			MediaID:  mediaID,
			Position: next,
			Variant:  in.Variant,
			Title:    in.Title,
			RelPath:  in.RelPath,
		})
		next++
	}
	return f.ListTracks(context.Background(), albumID)
}

func (f *fakeRepository) ReorderTracks(_ context.Context, albumID uuid.UUID, trackIDs []uuid.UUID) error {
	byID := make(map[uuid.UUID]*album.Track)
	for _, t := range f.tracks[albumID] {
		byID[t.ID] = t
	}

	var ordered []*album.Track
	placed := make(map[uuid.UUID]bool)
	for _, id := range trackIDs {
		t, ok := byID[id]
		if !ok {
			return album.ErrTrackNotFound
		}
		ordered = append(ordered, t)
		placed[id] = true
	}
	for _, t := range f.tracks[albumID] {
		if !placed[t.ID] {
			ordered = append(ordered, t)
		}
	}
	for i, t := range ordered {
		t.Position = i + 1
	}
	f.tracks[albumID] = ordered
	return nil
}

func (f *fakeRepository) DeleteTrack(_ context.Context, albumID, trackID uuid.UUID) error {
	tracks := f.tracks[albumID]
	idx := -1
	for i, t := range tracks {
		if t.ID == trackID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return album.ErrTrackNotFound
	}
	tracks = append(tracks[:idx], tracks[idx+1:]...)
	for i, t := range tracks {
		t.Position = i + 1
	}
	f.tracks[albumID] = tracks
	return nil
}

type fakeStorage struct{}

func (fakeStorage) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	return "http://storage.local/studio/" + key, nil
}

func newTestService(repo album.Repository) album.Service {
	return NewAlbumService(repo, fakeStorage{}, storage.NewImageProcessor())
}

func TestCreateAssignsUniqueSlugPerOwner(t *testing.T) {
	svc := newTestService(newFakeRepository())
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	first, err := svc.Create(ctx, owner, album.CreateAlbumRequest{Title: "Demo"})
	require.NoError(t, err)
	assert.Equal(t, "demo", first.Slug)
	assert.Equal(t, album.VisibilityPrivate, first.Visibility)

	second, err := svc.Create(ctx, owner, album.CreateAlbumRequest{Title: "Demo"})
	require.NoError(t, err)
	assert.Equal(t, "demo-2", second.Slug)

	third, err := svc.Create(ctx, owner, album.CreateAlbumRequest{Title: "Demo"})
	require.NoError(t, err)
	assert.Equal(t, "demo-3", third.Slug)

	// Slug space is per owner: another user starts from scratch.
	foreign, err := svc.Create(ctx, other, album.CreateAlbumRequest{Title: "Demo"})
	require.NoError(t, err)
	assert.Equal(t, "demo", foreign.Slug)
}

func TestCreateSlugFallback(t *testing.T) {
	svc := newTestService(newFakeRepository())
	ctx := context.Background()

	a, err := svc.Create(ctx, uuid.New(), album.CreateAlbumRequest{Title: "!!!"})
	require.NoError(t, err)
	assert.Equal(t, "album", a.Slug)
}

func TestOwnershipIsolation(t *testing.T) {
	svc := newTestService(newFakeRepository())
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	a, err := svc.Create(ctx, owner, album.CreateAlbumRequest{Title: "Private"})
	require.NoError(t, err)

	// Someone else's album is a 404, never a permission error.
	_, err = svc.Get(ctx, intruder, a.ID)
	assert.ErrorIs(t, err, album.ErrAlbumNotFound)

	err = svc.Delete(ctx, intruder, a.ID)
	assert.ErrorIs(t, err, album.ErrAlbumNotFound)

	_, err = svc.Clone(ctx, intruder, a.ID)
	assert.ErrorIs(t, err, album.ErrAlbumNotFound)

	// The owner still sees it untouched.
	got, err := svc.Get(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestUpdateKeepsTitleAndSubtitleWhenEmpty(t *testing.T) {
	svc := newTestService(newFakeRepository())
	ctx := context.Background()
	owner := uuid.New()

	a, err := svc.Create(ctx, owner, album.CreateAlbumRequest{Title: "Original", Subtitle: "Sub"})
	require.NoError(t, err)

	desc := "new description"
	updated, err := svc.Update(ctx, owner, a.ID, album.UpdateAlbumRequest{
		DescriptionMD: &desc,
		Visibility:    "public",
	})
	require.NoError(t, err)

	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "Sub", updated.Subtitle)
	assert.Equal(t, "new description", updated.DescriptionMD)
	assert.Equal(t, album.VisibilityPublic, updated.Visibility)
}

func TestUpdateReplacesMetadataWholesale(t *testing.T) {
	svc := newTestService(newFakeRepository())
	ctx := context.Background()
	owner := uuid.New()

	a, err := svc.Create(ctx, owner, album.CreateAlbumRequest{Title: "Meta"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, a.ID, album.UpdateAlbumRequest{
		Metadata: &album.Metadata{
			Tags: []string{"jazz", "live"},
			Tracks: []album.MetadataTrack{
				{Title: "Intro"},
				{Title: "Outro"},
			},
		},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, a.ID, album.UpdateAlbumRequest{
		Metadata: &album.Metadata{Year: 2024},
	})
	require.NoError(t, err)

	// The old tracks and tags are gone, not merged.
	assert.Empty(t, updated.Metadata.Tracks)
	assert.Empty(t, updated.Metadata.Tags)
	assert.Equal(t, 2024, updated.Metadata.Year)
}

func TestCloneIsIndependent(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	ctx := context.Background()
	owner := uuid.New()

	src, err := svc.Create(ctx, owner, album.CreateAlbumRequest{Title: "Live Set"})
	require.NoError(t, err)

	srcTracks, err := svc.AddTracks(ctx, owner, src.ID, album.AddTracksRequest{
		Tracks: []album.TrackInput{
			{RelPath: "live/01.flac", Title: "Opener"},
			{RelPath: "live/02.flac", Title: "Closer"},
		},
	})
	require.NoError(t, err)
	require.Len(t, srcTracks, 2)

	copy, err := svc.Clone(ctx, owner, src.ID)
	require.NoError(t, err)

	assert.Equal(t, "Live Set (copy)", copy.Title)
	assert.Equal(t, "live-set-copy", copy.Slug)
	assert.NotEqual(t, src.ID, copy.ID)

	copyTracks, err := svc.ListTracks(ctx, owner, copy.ID)
	require.NoError(t, err)
	require.Len(t, copyTracks, 2)

	// Same media, same relative order, fresh row identities.
	for i := range copyTracks {
		assert.Equal(t, srcTracks[i].MediaID, copyTracks[i].MediaID)
		assert.Equal(t, srcTracks[i].Position, copyTracks[i].Position)
		assert.NotEqual(t, srcTracks[i].ID, copyTracks[i].ID)
	}

	// Mutating the source leaves the copy alone.
	_, err = svc.DeleteTrack(ctx, owner, src.ID, srcTracks[0].ID)
	require.NoError(t, err)

	copyTracks, err = svc.ListTracks(ctx, owner, copy.ID)
	require.NoError(t, err)
	assert.Len(t, copyTracks, 2)

	remaining, err := svc.ListTracks(ctx, owner, src.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 1, remaining[0].Position, "positions renumber densely after delete")
}

func TestReorderNormalizesPositions(t *testing.T) {
	svc := newTestService(newFakeRepository())
	ctx := context.Background()
	owner := uuid.New()

	a, err := svc.Create(ctx, owner, album.CreateAlbumRequest{Title: "Order"})
	require.NoError(t, err)

	tracks, err := svc.AddTracks(ctx, owner, a.ID, album.AddTracksRequest{
		Tracks: []album.TrackInput{
			{RelPath: "a.mp3"},
			{RelPath: "b.mp3"},
			{RelPath: "c.mp3"},
		},
	})
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	reordered, err := svc.ReorderTracks(ctx, owner, a.ID, album.ReorderTracksRequest{
		TrackIDs: []uuid.UUID{tracks[2].ID, tracks[0].ID, tracks[1].ID},
	})
	require.NoError(t, err)

	require.Len(t, reordered, 3)
	assert.Equal(t, tracks[2].ID, reordered[0].ID)
	assert.Equal(t, tracks[0].ID, reordered[1].ID)
	assert.Equal(t, tracks[1].ID, reordered[2].ID)
	for i, tr := range reordered {
		assert.Equal(t, i+1, tr.Position)
	}
}
