package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/domain/entity"
	repo "github.com/oksasatya/studytube/internal/domain/repository"
)

const defaultSearchLimit = 20

// NoteIndex is a full-text index over notes.
type NoteIndex interface {
	Index(ctx context.Context, n *entity.Note) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, userID, q string, limit int) ([]entity.Note, error)
}

type NoteService struct {
	Repo   repo.NoteRepository
	Index  NoteIndex
	Logger *logrus.Logger
}

func NewNoteService(notes repo.NoteRepository, index NoteIndex, logger *logrus.Logger) *NoteService {
	return &NoteService{Repo: notes, Index: index, Logger: logger}
}

// NoteInput carries note fields. On update nil pointers keep the stored value.
type NoteInput struct {
	PlaylistID  string
	VideoID     string
	Content     *string
	HTMLContent *string
	Timestamp   *int
	Category    *entity.NoteCategory
	Tags        []string
	IsBookmark  *bool
}

func (s *NoteService) List(ctx context.Context, userID, playlistID, videoID string) ([]entity.Note, error) {
	return s.Repo.ListByVideo(ctx, userID, playlistID, videoID)
}

func (s *NoteService) Create(ctx context.Context, userID string, in NoteInput) (*entity.Note, error) {
	n := &entity.Note{
		UserID:     userID,
		PlaylistID: in.PlaylistID,
		VideoID:    in.VideoID,
		Category:   entity.NoteGeneral,
		Tags:       []string{},
	}
	apply(n, in)
	if err := s.Repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.index(ctx, n)
	return n, nil
}

func (s *NoteService) Update(ctx context.Context, userID, id string, in NoteInput) (*entity.Note, error) {
	n, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, ErrNoteNotFound)
	}
	apply(n, in)
	if err := s.Repo.Update(ctx, n); err != nil {
		return nil, notFound(err, ErrNoteNotFound)
	}
	s.index(ctx, n)
	return n, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.Delete(ctx, userID, id); err != nil {
		return notFound(err, ErrNoteNotFound)
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("note_id", id).Warn("note index removal failed")
		}
	}
	return nil
}

// Search queries the index when one is configured and falls back to the database.
func (s *NoteService) Search(ctx context.Context, userID, q string) ([]entity.Note, error) {
	if s.Index != nil {
		notes, err := s.Index.Search(ctx, userID, q, defaultSearchLimit)
		if err == nil {
			return notes, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("note index search failed; using database")
		}
	}
	return s.Repo.Search(ctx, userID, q, defaultSearchLimit)
}

func (s *NoteService) index(ctx context.Context, n *entity.Note) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, n); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("note_id", n.ID).Warn("note indexing failed")
	}
}

func apply(n *entity.Note, in NoteInput) {
	if in.Content != nil {
		n.Content = *in.Content
	}
	if in.HTMLContent != nil {
		n.HTMLContent = *in.HTMLContent
	}
	if in.Timestamp != nil {
		n.Timestamp = in.Timestamp
	}
	if in.Category != nil && in.Category.Valid() {
		n.Category = *in.Category
	}
	if in.Tags != nil {
		n.Tags = in.Tags
	}
	if in.IsBookmark != nil {
		n.IsBookmark = *in.IsBookmark
	}
}
