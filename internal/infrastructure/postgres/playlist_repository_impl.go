package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/domain/repository"
)

const playlistColumns = `id, user_id, playlist_id, title, description, thumbnail_url, channel_title,
	total_videos, completed_videos, videos, folder_id, is_starred, tags, created_at, updated_at`

type PlaylistRepository struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepository(pool *pgxpool.Pool) *PlaylistRepository {
	return &PlaylistRepository{pool: pool}
}

func scanPlaylist(row pgx.Row) (*entity.Playlist, error) {
	p := &entity.Playlist{}
	if err := row.Scan(&p.ID, &p.UserID, &p.PlaylistID, &p.Title, &p.Description, &p.ThumbnailURL,
		&p.ChannelTitle, &p.TotalVideos, &p.CompletedVideos, &p.Videos, &p.FolderID, &p.IsStarred,
		&p.Tags, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	if p.Videos == nil {
		p.Videos = []entity.Video{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func (r *PlaylistRepository) ListByUser(ctx context.Context, userID string) ([]entity.Playlist, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.Playlist{}
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, mapErr(rows.Err())
}

func (r *PlaylistRepository) Get(ctx context.Context, userID, id string) (*entity.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *PlaylistRepository) ExistsForUser(ctx context.Context, userID, playlistID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM playlists WHERE user_id = $1 AND playlist_id = $2)`, userID, playlistID).Scan(&exists)
	return exists, mapErr(err)
}

func (r *PlaylistRepository) Create(ctx context.Context, p *entity.Playlist) error {
	if p.Videos == nil {
		p.Videos = []entity.Video{}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO playlists (user_id, playlist_id, title, description, thumbnail_url, channel_title,
			total_videos, completed_videos, videos, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.PlaylistID, p.Title, p.Description, p.ThumbnailURL, p.ChannelTitle,
		p.TotalVideos, p.CompletedVideos, p.Videos, p.Tags)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *PlaylistRepository) ToggleVideo(ctx context.Context, userID, id, videoID string) (*entity.Playlist, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := scanPlaylist(tx.QueryRow(ctx, `SELECT `+playlistColumns+` FROM playlists WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID))
	if err != nil {
		return nil, false, err
	}
	completed, ok := p.ToggleVideo(videoID)
	if !ok {
		return p, false, repository.ErrNotFound
	}
	if err := tx.QueryRow(ctx, `
		UPDATE playlists SET videos = $3, completed_videos = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING updated_at
	`, id, userID, p.Videos, p.CompletedVideos).Scan(&p.UpdatedAt); err != nil {
		return nil, false, mapErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return p, completed, nil
}

func (r *PlaylistRepository) ToggleStar(ctx context.Context, userID, id string) (*entity.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `
		UPDATE playlists SET is_starred = NOT is_starred, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING `+playlistColumns, id, userID))
}

// SetFolder moves the playlist; the target folder must belong to the same user.
func (r *PlaylistRepository) SetFolder(ctx context.Context, userID, id string, folderID *string) (*entity.Playlist, error) {
	return scanPlaylist(r.pool.QueryRow(ctx, `
		UPDATE playlists SET folder_id = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2
		  AND ($3::uuid IS NULL OR EXISTS (SELECT 1 FROM folders f WHERE f.id = $3::uuid AND f.user_id = $2))
		RETURNING `+playlistColumns, id, userID, folderID))
}

func (r *PlaylistRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PlaylistRepository = (*PlaylistRepository)(nil)
