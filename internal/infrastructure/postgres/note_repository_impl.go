package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/domain/repository"
)

const noteColumns = `id, user_id, playlist_id, video_id, content, html_content, timestamp_seconds,
	category, tags, is_bookmark, created_at, updated_at`

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	n := &entity.Note{}
	var category string
	if err := row.Scan(&n.ID, &n.UserID, &n.PlaylistID, &n.VideoID, &n.Content, &n.HTMLContent,
		&n.Timestamp, &category, &n.Tags, &n.IsBookmark, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	n.Category = entity.NoteCategory(category)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n, nil
}

func collectNotes(rows pgx.Rows) ([]entity.Note, error) {
	defer rows.Close()
	out := []entity.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}
	return out, mapErr(rows.Err())
}

func (r *NoteRepository) ListByVideo(ctx context.Context, userID, playlistID, videoID string) ([]entity.Note, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE user_id = $1 AND playlist_id = $2 AND video_id = $3
		ORDER BY created_at DESC
	`, userID, playlistID, videoID)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectNotes(rows)
}

func (r *NoteRepository) Get(ctx context.Context, userID, id string) (*entity.Note, error) {
	return scanNote(r.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *NoteRepository) Create(ctx context.Context, n *entity.Note) error {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notes (user_id, playlist_id, video_id, content, html_content, timestamp_seconds, category, tags, is_bookmark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, n.UserID, n.PlaylistID, n.VideoID, n.Content, n.HTMLContent, n.Timestamp, string(n.Category), n.Tags, n.IsBookmark)
	return mapErr(row.Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt))
}

func (r *NoteRepository) Update(ctx context.Context, n *entity.Note) error {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE notes
		SET content = $3, html_content = $4, timestamp_seconds = $5, category = $6, tags = $7, is_bookmark = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING created_at, updated_at
	`, n.ID, n.UserID, n.Content, n.HTMLContent, n.Timestamp, string(n.Category), n.Tags, n.IsBookmark)
	return mapErr(row.Scan(&n.CreatedAt, &n.UpdatedAt))
}

func (r *NoteRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Search is the fallback used when no search index is configured.
func (r *NoteRepository) Search(ctx context.Context, userID, q string, limit int) ([]entity.Note, error) {
	pattern := "%" + escapeLike(q) + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE user_id = $1 AND (content ILIKE $2 OR $3 = ANY(tags))
		ORDER BY updated_at DESC
		LIMIT $4
	`, userID, pattern, q, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	return collectNotes(rows)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

var _ repository.NoteRepository = (*NoteRepository)(nil)
