package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/repository"
	"nutriai/nutrition-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrNameRequired           = errors.New("name cannot be empty")
	ErrEmptyUpdate            = errors.New("no profile fields to update")
	ErrUnsupportedContentType = errors.New("avatar must be an image")
	ErrNoAvatar               = errors.New("user has no avatar")
	ErrStorageUnavailable     = errors.New("file storage is not configured")
	ErrForeignAvatarKey       = errors.New("object key does not belong to this user")
	ErrAvatarNotUploaded      = errors.New("avatar upload has not completed")
)

const avatarURLExpiry = 15 * time.Minute

// BodyMetrics is the first onboarding step: name plus the measurements that
// later feed plan generation.
type BodyMetrics struct {
	Name   string
	Weight string
	Height string
	Age    string
}

// AvatarUpload tells the client where to PUT the image and which header to send.
type AvatarUpload struct {
	UploadURL   string    `json:"uploadUrl"`
	ObjectKey   string    `json:"objectKey"`
	ContentType string    `json:"contentType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd domain.ProfileUpdate) (*domain.User, error)
	SaveBodyMetrics(ctx context.Context, userID primitive.ObjectID, m BodyMetrics) (*domain.User, error)
	RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error)
	ConfirmAvatarUpload(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.User, error)
	AvatarURL(ctx context.Context, userID primitive.ObjectID) (string, error)
}

type profileService struct {
	userRepo repository.UserRepository
	files    storage.FileStorage
	log      *zap.SugaredLogger
}

// NewProfileService wires the profile use cases. files may be nil, in which
// case avatar operations return ErrStorageUnavailable.
func NewProfileService(userRepo repository.UserRepository, files storage.FileStorage, log *zap.SugaredLogger) ProfileService {
	return &profileService{userRepo: userRepo, files: files, log: log}
}

func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd domain.ProfileUpdate) (*domain.User, error) {
	if upd.IsEmpty() {
		return nil, ErrEmptyUpdate
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		upd.Name = &name
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) SaveBodyMetrics(ctx context.Context, userID primitive.ObjectID, m BodyMetrics) (*domain.User, error) {
	return s.UpdateProfile(ctx, userID, domain.ProfileUpdate{
		Name:   &m.Name,
		Weight: &m.Weight,
		Height: &m.Height,
		Age:    &m.Age,
	})
}

var avatarExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

func avatarPrefix(userID primitive.ObjectID) string {
	return "avatars/" + userID.Hex() + "/"
}

// RequestAvatarUpload allocates a fresh object key and presigns a PUT for it.
// Nothing on the user changes until the client confirms the upload, so an
// abandoned upload leaves the current avatar in place.
func (s *profileService) RequestAvatarUpload(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUpload, error) {
	if s.files == nil {
		return nil, ErrStorageUnavailable
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedContentType
	}

	if _, err := s.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	key := avatarPrefix(userID) + uuid.NewString() + avatarExtensions[contentType]
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, avatarURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign avatar upload: %w", err)
	}

	return &AvatarUpload{
		UploadURL:   url,
		ObjectKey:   key,
		ContentType: contentType,
		ExpiresAt:   time.Now().UTC().Add(avatarURLExpiry),
	}, nil
}

// ConfirmAvatarUpload points the profile at objectKey once the object exists
// in storage, then removes the previous avatar best-effort.
func (s *profileService) ConfirmAvatarUpload(ctx context.Context, userID primitive.ObjectID, objectKey string) (*domain.User, error) {
	if s.files == nil {
		return nil, ErrStorageUnavailable
	}
	objectKey = strings.TrimSpace(objectKey)
	if !strings.HasPrefix(objectKey, avatarPrefix(userID)) || strings.Contains(objectKey, "..") {
		return nil, ErrForeignAvatarKey
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.AvatarKey == objectKey {
		return user, nil
	}

	exists, err := s.files.ObjectExists(ctx, objectKey)
	if err != nil {
		return nil, fmt.Errorf("check avatar object: %w", err)
	}
	if !exists {
		return nil, ErrAvatarNotUploaded
	}

	if err := s.userRepo.SetAvatarKey(ctx, userID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.AvatarKey != "" {
		if err := s.files.DeleteObject(ctx, user.AvatarKey); err != nil {
			s.log.Warnw("failed to delete previous avatar", "userId", userID.Hex(), "key", user.AvatarKey, "error", err)
		}
	}

	user.AvatarKey = objectKey
	return user, nil
}

func (s *profileService) AvatarURL(ctx context.Context, userID primitive.ObjectID) (string, error) {
	if s.files == nil {
		return "", ErrStorageUnavailable
	}
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.AvatarKey == "" {
		return "", ErrNoAvatar
	}
	return s.files.GeneratePresignedDownloadURL(ctx, user.AvatarKey, avatarURLExpiry)
}
