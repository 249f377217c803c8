package repository

import (
	"context"

	"github.com/oksasatya/studytube/internal/domain/entity"
)

// PlaylistRepository stores imported playlists. Every lookup is scoped to the owner.
type PlaylistRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.Playlist, error)
	Get(ctx context.Context, userID, id string) (*entity.Playlist, error)
	ExistsForUser(ctx context.Context, userID, playlistID string) (bool, error)
	Create(ctx context.Context, p *entity.Playlist) error
	// ToggleVideo flips a video's completion under a row lock.
	ToggleVideo(ctx context.Context, userID, id, videoID string) (*entity.Playlist, bool, error)
	ToggleStar(ctx context.Context, userID, id string) (*entity.Playlist, error)
	SetFolder(ctx context.Context, userID, id string, folderID *string) (*entity.Playlist, error)
	Delete(ctx context.Context, userID, id string) error
}

// FolderRepository stores user folders.
type FolderRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.Folder, error)
	Get(ctx context.Context, userID, id string) (*entity.Folder, error)
	Create(ctx context.Context, f *entity.Folder) error
	Update(ctx context.Context, f *entity.Folder) error
	Delete(ctx context.Context, userID, id string) error
}

// NoteRepository stores video notes.
type NoteRepository interface {
	ListByVideo(ctx context.Context, userID, playlistID, videoID string) ([]entity.Note, error)
	Get(ctx context.Context, userID, id string) (*entity.Note, error)
	Create(ctx context.Context, n *entity.Note) error
	Update(ctx context.Context, n *entity.Note) error
	Delete(ctx context.Context, userID, id string) error
	Search(ctx context.Context, userID, q string, limit int) ([]entity.Note, error)
}
