package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	pgrepo "github.com/Hareshku/growtogather-backend/internal/repo/postgres"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrUnsupported = errors.New("unsupported image type")
)

const (
	signedURLTTL  = 5 * time.Minute
	maxAvatarSize = 5 << 20
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type UserStore interface {
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	SetAvatarKey(ctx context.Context, userID int64, key string) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	users   UserStore
	storage ObjectStorage
	now     func() time.Time
}

type Avatar struct {
	URL string
}

func NewService(users UserStore, storage ObjectStorage) *Service {
	return &Service{
		users:   users,
		storage: storage,
		now:     time.Now,
	}
}

// UploadAvatar stores the image and swaps the user's avatar key. The
// previous object is deleted only after the new one is fully recorded.
func (s *Service) UploadAvatar(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (Avatar, error) {
	if userID <= 0 || body == nil || size <= 0 {
		return Avatar{}, ErrValidation
	}
	if size > maxAvatarSize {
		return Avatar{}, fmt.Errorf("%w: avatar exceeds %d bytes", ErrValidation, maxAvatarSize)
	}
	if s.users == nil || s.storage == nil {
		return Avatar{}, fmt.Errorf("media dependencies are not configured")
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return Avatar{}, ErrUnsupported
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Avatar{}, fmt.Errorf("get user: %w", err)
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Avatar{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey, err := buildAvatarObjectKey(userID, fileName, ext, s.now())
	if err != nil {
		return Avatar{}, fmt.Errorf("build object key: %w", err)
	}

	if err := s.storage.PutObject(ctx, objectKey, body, size, contentType); err != nil {
		return Avatar{}, fmt.Errorf("put object: %w", err)
	}

	if err := s.users.SetAvatarKey(ctx, userID, objectKey); err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return Avatar{}, fmt.Errorf("store avatar key: %w", err)
	}

	if user.AvatarKey != "" && user.AvatarKey != objectKey {
		_ = s.storage.Delete(ctx, user.AvatarKey)
	}

	url, err := s.storage.PresignGet(ctx, objectKey, signedURLTTL)
	if err != nil {
		return Avatar{}, fmt.Errorf("presign avatar url: %w", err)
	}
	return Avatar{URL: url}, nil
}

// AvatarURL returns a short-lived signed URL for the user's avatar, or an
// empty string when no avatar is set.
func (s *Service) AvatarURL(ctx context.Context, userID int64) (string, error) {
	if userID <= 0 {
		return "", ErrValidation
	}
	if s.users == nil || s.storage == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}
	if user.AvatarKey == "" {
		return "", nil
	}
	url, err := s.storage.PresignGet(ctx, user.AvatarKey, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign avatar url: %w", err)
	}
	return url, nil
}

func buildAvatarObjectKey(userID int64, fileName, fallbackExt string, now time.Time) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = fallbackExt
	}

	stamp := now.UTC().Format("20060102T150405")
	return fmt.Sprintf("users/%d/avatar/%s_%s%s", userID, stamp, hex.EncodeToString(rnd), ext), nil
}
