package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/domain/repository"
)

const userColumns = `id, phone, name, email, avatar_url, is_verified, otp_code, otp_expiry, pending_phone, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var (
		code, pending *string
		expiry        *time.Time
	)
	if err := row.Scan(&u.ID, &u.Phone, &u.Name, &u.Email, &u.AvatarURL, &u.IsVerified,
		&code, &expiry, &pending, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	if code != nil && expiry != nil {
		u.Challenge = entity.NewChallenge(*code, *expiry).WithNewPhone(deref(pending))
	}
	return u, nil
}

// challengeArgs splits a challenge into nullable column values.
func challengeArgs(ch entity.Challenge) (code *string, expiry *time.Time, pending *string) {
	if !ch.Pending() {
		return nil, nil, nil
	}
	exp := ch.ExpiresAt()
	return nullable(ch.Code()), &exp, nullable(ch.NewPhone())
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	code, expiry, pending := challengeArgs(u.Challenge)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (phone, name, email, is_verified, otp_code, otp_expiry, pending_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Phone, u.Name, u.Email, u.IsVerified, code, expiry, pending)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetChallenge(ctx context.Context, id string, ch entity.Challenge) error {
	code, expiry, pending := challengeArgs(ch)
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET otp_code = $2, otp_expiry = $3, pending_phone = $4, updated_at = now()
		WHERE id = $1
	`, id, code, expiry, pending)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ConsumeChallenge(ctx context.Context, id string, expected entity.Challenge) (*entity.User, error) {
	if !expected.Pending() {
		return nil, repository.ErrStaleChallenge
	}
	code, expiry, pending := challengeArgs(expected)
	u, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET is_verified = TRUE,
		    phone = COALESCE(pending_phone, phone),
		    otp_code = NULL, otp_expiry = NULL, pending_phone = NULL,
		    updated_at = now()
		WHERE id = $1
		  AND otp_code = $2
		  AND otp_expiry = $3
		  AND pending_phone IS NOT DISTINCT FROM $4
		RETURNING `+userColumns, id, code, expiry, pending))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, repository.ErrStaleChallenge
	}
	return u, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id, name, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET name = $2, email = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, id, name, email))
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET avatar_url = $2, updated_at = now() WHERE id = $1`, id, avatarURL)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
