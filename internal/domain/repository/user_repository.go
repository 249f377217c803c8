package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/studytube/internal/domain/entity"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key (phone, folder name, ...) is already taken.
	ErrConflict = errors.New("conflict")
	// ErrStaleChallenge is returned when the stored challenge no longer equals the expected one.
	ErrStaleChallenge = errors.New("stale challenge")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts u with its challenge and fills ID and timestamps.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	Delete(ctx context.Context, id string) error
	// SetChallenge replaces the user's challenge in a single write.
	SetChallenge(ctx context.Context, id string, ch entity.Challenge) error
	// ConsumeChallenge clears expected and marks the user verified, but only if
	// expected is still the stored challenge. A pending phone change is applied
	// in the same write.
	ConsumeChallenge(ctx context.Context, id string, expected entity.Challenge) (*entity.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) (*entity.User, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}
