package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"studio-backend/internal/domains/user"
	"studio-backend/internal/infrastructure/storage"
)

type fakeRepository struct {
	users    map[uuid.UUID]*user.User
	profiles map[uuid.UUID]*user.Profile
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:    make(map[uuid.UUID]*user.User),
		profiles: make(map[uuid.UUID]*user.Profile),
	}
}

func (f *fakeRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.IsVerified && !u.IsDeleted {
			copy := *u
			return &copy, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeRepository) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok || !u.IsVerified || u.IsDeleted {
		return nil, user.ErrUserNotFound
	}
	copy := *u
	return &copy, nil
}

func (f *fakeRepository) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

func (f *fakeRepository) GetProfile(_ context.Context, userID uuid.UUID) (*user.Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, user.ErrProfileNotFound
	}
	copy := *p
	return &copy, nil
}

func (f *fakeRepository) SaveProfile(_ context.Context, userID uuid.UUID, nickname string, p *user.Profile) error {
	if nickname != "" {
		if u, ok := f.users[userID]; ok {
			n := nickname
			u.Nickname = &n
		}
	}
	copy := *p
	f.profiles[userID] = &copy
	return nil
}

type fakeStorage struct{}

func (fakeStorage) Upload(_ context.Context, key string, _ []byte, _ string) (string, error) {
	return "http://storage.local/studio/" + key, nil
}

func addUser(repo *fakeRepository, email, password string) *user.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
		IsVerified:   true,
	}
	repo.users[u.ID] = u
	return u
}

func newTestService(repo user.Repository) user.Service {
	return NewUserService(repo, fakeStorage{}, storage.NewImageProcessor())
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeRepository()
	u := addUser(repo, "ada@example.com", "hunter22")
	svc := newTestService(repo)
	ctx := context.Background()

	t.Run("success stamps last_login", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "ada@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.NotNil(t, repo.users[u.ID].LastLogin)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "hunter22")
		assert.ErrorIs(t, err, user.ErrEmailNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ada@example.com", "wrong")
		assert.ErrorIs(t, err, user.ErrInvalidPassword)
	})

	t.Run("deleted account behaves like unknown email", func(t *testing.T) {
		gone := addUser(repo, "gone@example.com", "pw123456")
		repo.users[gone.ID].IsDeleted = true

		_, err := svc.Authenticate(ctx, "gone@example.com", "pw123456")
		assert.ErrorIs(t, err, user.ErrEmailNotFound)
	})
}

func TestGetMeProjection(t *testing.T) {
	repo := newFakeRepository()
	u := addUser(repo, "grace@example.com", "pw123456")
	svc := newTestService(repo)
	ctx := context.Background()

	dto, err := svc.GetMe(ctx, u.ID)
	require.NoError(t, err)

	// No nickname: name falls back to the email local part; no profile:
	// avatar falls back to the stock icon.
	assert.Equal(t, "grace", dto.Name)
	assert.Equal(t, "/media/icons/user.svg", dto.AvatarURL)

	_, err = svc.GetMe(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdateProfileLazyUpsert(t *testing.T) {
	repo := newFakeRepository()
	u := addUser(repo, "linus@example.com", "pw123456")
	svc := newTestService(repo)
	ctx := context.Background()

	dto, err := svc.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{
		Nickname: "torvalds",
		Bio:      "kernel things",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "torvalds", dto.Nickname)
	require.NotNil(t, dto.Profile.Bio)
	assert.Equal(t, "kernel things", *dto.Profile.Bio)

	// Empty nickname on a later save keeps the existing one.
	dto, err = svc.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{
		Bio: "still kernel things",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "torvalds", dto.Nickname)
}

func TestUpdateProfileKeepsAvatarWithoutNewUpload(t *testing.T) {
	repo := newFakeRepository()
	u := addUser(repo, "avatar@example.com", "pw123456")
	svc := newTestService(repo)
	ctx := context.Background()

	avatar := "http://storage.local/studio/avatars/old.jpg"
	repo.profiles[u.ID] = &user.Profile{UserID: u.ID, Avatar: &avatar}

	dto, err := svc.UpdateProfile(ctx, u.ID, user.UpdateProfileRequest{Bio: "hi"}, nil)
	require.NoError(t, err)

	require.NotNil(t, dto.Profile.Avatar)
	assert.Equal(t, avatar, *dto.Profile.Avatar)
}

func TestUpdateProfileRejectsGarbageAvatar(t *testing.T) {
	repo := newFakeRepository()
	u := addUser(repo, "garbage@example.com", "pw123456")
	svc := newTestService(repo)

	_, err := svc.UpdateProfile(context.Background(), u.ID, user.UpdateProfileRequest{}, []byte("not an image"))
	assert.ErrorIs(t, err, user.ErrInvalidImage)
}
