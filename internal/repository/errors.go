package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrRefreshTokenNotFound means the token was never issued, was revoked,
	// was already rotated, or has expired. Callers cannot tell which.
	ErrRefreshTokenNotFound = errors.New("refresh token not found or expired")
	// ErrDuplicateEmail is returned when the users.email unique index rejects an insert.
	ErrDuplicateEmail = errors.New("duplicate email")
)

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// modernc sqlite errors are not translated by gorm.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
