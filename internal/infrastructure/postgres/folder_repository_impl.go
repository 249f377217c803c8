package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/domain/repository"
)

const folderColumns = `id, user_id, name, description, color, created_at, updated_at`

type FolderRepository struct {
	pool *pgxpool.Pool
}

func NewFolderRepository(pool *pgxpool.Pool) *FolderRepository {
	return &FolderRepository{pool: pool}
}

func scanFolder(row pgx.Row) (*entity.Folder, error) {
	f := &entity.Folder{}
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Description, &f.Color, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return f, nil
}

func (r *FolderRepository) ListByUser(ctx context.Context, userID string) ([]entity.Folder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+folderColumns+` FROM folders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, mapErr(rows.Err())
}

func (r *FolderRepository) Get(ctx context.Context, userID, id string) (*entity.Folder, error) {
	return scanFolder(r.pool.QueryRow(ctx, `SELECT `+folderColumns+` FROM folders WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *FolderRepository) Create(ctx context.Context, f *entity.Folder) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO folders (user_id, name, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, f.UserID, f.Name, f.Description, f.Color)
	return mapErr(row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt))
}

func (r *FolderRepository) Update(ctx context.Context, f *entity.Folder) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE folders SET name = $3, description = $4, color = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`, f.ID, f.UserID, f.Name, f.Description, f.Color)
	return mapErr(row.Scan(&f.CreatedAt, &f.UpdatedAt))
}

// Delete removes the folder; playlists inside are unassigned by the FK.
func (r *FolderRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.FolderRepository = (*FolderRepository)(nil)
