package repository

import (
	"context"
	"errors"
	"time"

	"tasktracker/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RefreshTokenRepository is the server-side session store. A refresh token is
// valid only while its row exists and has not expired; rotation deletes the row.
type RefreshTokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *RefreshTokenRepository) Persist(ctx context.Context, t *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// ConsumeAndRotate deletes the unexpired record for tokenHash and returns the
// user it was bound to. Only one caller can win for a given token.
func (r *RefreshTokenRepository) ConsumeAndRotate(ctx context.Context, tokenHash string) (int64, error) {
	var userID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		userID, err = r.consume(tx, tokenHash)
		return err
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Rotate consumes tokenHash and persists the replacement built by next in a
// single transaction. If anything fails, the old record is left untouched.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, tokenHash string, next func(userID int64) (*domain.RefreshToken, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := r.consume(tx, tokenHash)
		if err != nil {
			return err
		}

		replacement, err := next(userID)
		if err != nil {
			return err
		}
		replacement.UserID = userID

		return tx.Create(replacement).Error
	})
}

func (r *RefreshTokenRepository) consume(tx *gorm.DB, tokenHash string) (int64, error) {
	var current domain.RefreshToken
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token_hash = ? AND expires_at > ?", tokenHash, r.now()).
		First(&current).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRefreshTokenNotFound
		}
		return 0, err
	}

	// The affected-row count is the concurrency guard: a concurrent rotation
	// of the same token that already deleted the row leaves us with zero.
	res := tx.Where("id = ?", current.ID).Delete(&domain.RefreshToken{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected != 1 {
		return 0, ErrRefreshTokenNotFound
	}

	return current.UserID, nil
}

// Revoke deletes one record of the user, or every record when tokenHash is empty.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, userID int64, tokenHash string) error {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if tokenHash != "" {
		q = q.Where("token_hash = ?", tokenHash)
	}
	return q.Delete(&domain.RefreshToken{}).Error
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", r.now()).
		Delete(&domain.RefreshToken{})
	return res.RowsAffected, res.Error
}
