package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/domain/entity"
	repo "github.com/oksasatya/studytube/internal/domain/repository"
	"github.com/oksasatya/studytube/pkg/youtube"
)

// PlaylistFetcher loads playlist metadata from YouTube.
type PlaylistFetcher interface {
	FetchPlaylist(ctx context.Context, playlistID string) (*youtube.Playlist, error)
}

type PlaylistService struct {
	Repo    repo.PlaylistRepository
	Folders repo.FolderRepository
	YouTube PlaylistFetcher
	Logger  *logrus.Logger
}

func NewPlaylistService(playlists repo.PlaylistRepository, folders repo.FolderRepository, yt PlaylistFetcher, logger *logrus.Logger) *PlaylistService {
	return &PlaylistService{Repo: playlists, Folders: folders, YouTube: yt, Logger: logger}
}

func notFound(err, as error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return as
	}
	return err
}

// List returns the user's playlists, newest first.
func (s *PlaylistService) List(ctx context.Context, userID string) ([]entity.Playlist, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *PlaylistService) Get(ctx context.Context, userID, id string) (*entity.Playlist, error) {
	p, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, ErrPlaylistNotFound)
	}
	return p, nil
}

// Add imports the playlist behind url for the user.
func (s *PlaylistService) Add(ctx context.Context, userID, url string) (*entity.Playlist, error) {
	listID, ok := youtube.ExtractPlaylistID(url)
	if !ok {
		return nil, ErrInvalidPlaylistURL
	}
	exists, err := s.Repo.ExistsForUser(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPlaylistExists
	}
	if s.YouTube == nil {
		return nil, ErrImporterUnavailable
	}

	yp, err := s.YouTube.FetchPlaylist(ctx, listID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("playlist_id", listID).Warn("youtube import failed")
		}
		return nil, ErrPlaylistFetch
	}

	p := &entity.Playlist{
		UserID:       userID,
		PlaylistID:   yp.PlaylistID,
		Title:        yp.Title,
		Description:  yp.Description,
		ThumbnailURL: yp.ThumbnailURL,
		ChannelTitle: yp.ChannelTitle,
		TotalVideos:  len(yp.Videos),
		Videos:       make([]entity.Video, 0, len(yp.Videos)),
		Tags:         []string{},
	}
	for _, v := range yp.Videos {
		p.Videos = append(p.Videos, entity.Video{
			VideoID:      v.VideoID,
			Title:        v.Title,
			Description:  v.Description,
			ThumbnailURL: v.ThumbnailURL,
			Duration:     v.Duration,
			Position:     v.Position,
		})
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrPlaylistExists
		}
		return nil, err
	}
	return p, nil
}

// ToggleVideo flips one video's completion and returns the new flag.
func (s *PlaylistService) ToggleVideo(ctx context.Context, userID, id, videoID string) (*entity.Playlist, bool, error) {
	p, completed, err := s.Repo.ToggleVideo(ctx, userID, id, videoID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) && p != nil {
			return nil, false, ErrVideoNotFound
		}
		return nil, false, notFound(err, ErrPlaylistNotFound)
	}
	return p, completed, nil
}

func (s *PlaylistService) ToggleStar(ctx context.Context, userID, id string) (*entity.Playlist, error) {
	p, err := s.Repo.ToggleStar(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, ErrPlaylistNotFound)
	}
	return p, nil
}

// MoveToFolder assigns the playlist to folderID, or unassigns it when nil.
func (s *PlaylistService) MoveToFolder(ctx context.Context, userID, id string, folderID *string) (*entity.Playlist, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}
	if folderID != nil {
		if _, err := s.Folders.Get(ctx, userID, *folderID); err != nil {
			return nil, notFound(err, ErrFolderNotFound)
		}
	}
	p, err := s.Repo.SetFolder(ctx, userID, id, folderID)
	if err != nil {
		return nil, notFound(err, ErrPlaylistNotFound)
	}
	return p, nil
}

func (s *PlaylistService) Delete(ctx context.Context, userID, id string) error {
	return notFound(s.Repo.Delete(ctx, userID, id), ErrPlaylistNotFound)
}
