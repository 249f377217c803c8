package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/domain/entity"
	repo "github.com/oksasatya/studytube/internal/domain/repository"
)

// ObjectStore uploads a blob and returns its public URL.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// UserService covers the authenticated account operations.
type UserService struct {
	Repo    repo.UserRepository
	Auth    *AuthService
	Avatars ObjectStore
	Notify  *Notifications
	Logger  *logrus.Logger
}

func NewUserService(users repo.UserRepository, auth *AuthService, avatars ObjectStore, notify *Notifications, logger *logrus.Logger) *UserService {
	return &UserService{Repo: users, Auth: auth, Avatars: avatars, Notify: notify, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u.Public(), nil
}

// UpdateProfile replaces name and email. An empty email clears it.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, email string) (*entity.User, error) {
	before, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	u, err := s.Repo.UpdateProfile(ctx, userID, strings.TrimSpace(name), strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	changes := map[string]string{}
	if before.Name != u.Name {
		changes["name"] = u.Name
	}
	if before.Email != u.Email && u.Email != "" {
		changes["email"] = u.Email
	}
	s.Notify.ProfileUpdated(ctx, u, changes)
	return u.Public(), nil
}

// ChangePhone starts a phone change: the new number gets a challenge and is
// applied when that challenge is verified.
func (s *UserService) ChangePhone(ctx context.Context, userID, newPhone string) (string, error) {
	return s.Auth.IssueChallenge(ctx, ChallengeRequest{
		Context: ContextChangePhone,
		Phone:   newPhone,
		UserID:  userID,
	})
}

// UploadAvatar stores the image under avatars/<user>/ and persists its URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.Avatars == nil {
		return "", ErrStorageDisabled
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := s.Avatars.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	if err := s.Repo.UpdateAvatar(ctx, userID, url); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return url, nil
}
