package application

import (
	"context"
	"errors"
	"strings"

	"github.com/oksasatya/studytube/internal/domain/entity"
	repo "github.com/oksasatya/studytube/internal/domain/repository"
)

type FolderService struct {
	Repo repo.FolderRepository
}

func NewFolderService(folders repo.FolderRepository) *FolderService {
	return &FolderService{Repo: folders}
}

// FolderInput carries create/update fields. Nil pointers keep the current value on update.
type FolderInput struct {
	Name        string
	Description *string
	Color       *string
}

func (s *FolderService) List(ctx context.Context, userID string) ([]entity.Folder, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *FolderService) Get(ctx context.Context, userID, id string) (*entity.Folder, error) {
	f, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, ErrFolderNotFound)
	}
	return f, nil
}

func (s *FolderService) Create(ctx context.Context, userID string, in FolderInput) (*entity.Folder, error) {
	f := &entity.Folder{
		UserID: userID,
		Name:   strings.TrimSpace(in.Name),
		Color:  entity.DefaultFolderColor,
	}
	if in.Description != nil {
		f.Description = *in.Description
	}
	if in.Color != nil && *in.Color != "" {
		f.Color = *in.Color
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrFolderExists
		}
		return nil, err
	}
	return f, nil
}

func (s *FolderService) Update(ctx context.Context, userID, id string, in FolderInput) (*entity.Folder, error) {
	f, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	f.Name = strings.TrimSpace(in.Name)
	if in.Description != nil {
		f.Description = *in.Description
	}
	if in.Color != nil && *in.Color != "" {
		f.Color = *in.Color
	}
	if err := s.Repo.Update(ctx, f); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrFolderExists
		}
		return nil, notFound(err, ErrFolderNotFound)
	}
	return f, nil
}

// Delete removes the folder; its playlists become unassigned.
func (s *FolderService) Delete(ctx context.Context, userID, id string) error {
	return notFound(s.Repo.Delete(ctx, userID, id), ErrFolderNotFound)
}
