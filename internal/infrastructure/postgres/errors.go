package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/studytube/internal/domain/repository"
)

const (
	pgUniqueViolation    = "23505"
	pgInvalidTextRepr    = "22P02"
	pgForeignKeyViolated = "23503"
)

// mapErr translates driver errors into repository sentinels.
// Malformed ids are reported as not found.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return repository.ErrConflict
		case pgInvalidTextRepr, pgForeignKeyViolated:
			return repository.ErrNotFound
		}
	}
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
