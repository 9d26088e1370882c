package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"studio-backend/internal/domains/user"
	"studio-backend/internal/infrastructure/storage"
)

// ObjectStorage is the slice of the storage layer this service needs.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type userService struct {
	repo      user.Repository
	storage   ObjectStorage
	processor *storage.ImageProcessor
}

func NewUserService(repo user.Repository, store ObjectStorage, processor *storage.ImageProcessor) user.Service {
	return &userService{
		repo:      repo,
		storage:   store,
		processor: processor,
	}
}

// Authenticate verifies credentials. Only verified, non-deleted accounts
// are visible to the lookup, so a deactivated account fails the same way
// an unknown one does.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrEmailNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, user.ErrInvalidPassword
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("stamp last_login: %w", err)
	}

	return u, nil
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*user.MeDTO, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, user.ErrProfileNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	dto := u.ToMeDTO(profile)
	return &dto, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.ProfileDTO, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, user.ErrProfileNotFound) {
			return nil, fmt.Errorf("load profile: %w", err)
		}
		profile = &user.Profile{UserID: userID}
	}

	return &user.ProfileDTO{
		Nickname: u.NicknameOrEmpty(),
		Profile:  profile,
	}, nil
}

const avatarSize = 512

// UpdateProfile applies the form in a lazy-upsert style: the profile row
// is created on first save. The stored avatar survives saves that carry
// no new image.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest, avatarData []byte) (*user.ProfileDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, user.ErrProfileNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	p := &user.Profile{
		UserID:   userID,
		Bio:      optional(req.Bio),
		Phone:    optional(req.Phone),
		Homepage: optional(req.Homepage),
		Twitter:  optional(req.Twitter),
		LinkedIn: optional(req.LinkedIn),
		GitHub:   optional(req.GitHub),
	}
	if existing != nil {
		p.Avatar = existing.Avatar
	}

	if len(avatarData) > 0 {
		url, err := s.storeAvatar(ctx, userID, avatarData)
		if err != nil {
			return nil, err
		}
		p.Avatar = &url
	}

	if err := s.repo.SaveProfile(ctx, userID, req.Nickname, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// storeAvatar validates the upload, shrinks it to a 512px JPEG thumbnail
// and stores it under a per-user key, replacing any previous avatar.
func (s *userService) storeAvatar(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	if err := s.processor.ValidateImage(data); err != nil {
		return "", fmt.Errorf("%w: %s", user.ErrInvalidImage, err)
	}

	thumb, err := s.processor.Thumbnail(data, avatarSize)
	if err != nil {
		return "", fmt.Errorf("%w: %s", user.ErrInvalidImage, err)
	}

	key := fmt.Sprintf("avatars/%s.jpg", userID)
	url, err := s.storage.Upload(ctx, key, thumb, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return url, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
