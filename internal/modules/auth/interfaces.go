package auth

import (
	"context"

	"tasktracker/internal/domain"
	"tasktracker/internal/pkg/jwt"
)

// UserRepositoryInterface — only the methods auth service uses
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// SessionStore persists refresh tokens by hash.
type SessionStore interface {
	Persist(ctx context.Context, t *domain.RefreshToken) error
	Rotate(ctx context.Context, tokenHash string, next func(userID int64) (*domain.RefreshToken, error)) error
	Revoke(ctx context.Context, userID int64, tokenHash string) error
}

type TokenIssuer interface {
	Issue(id jwt.Identity) (*jwt.Pair, error)
	VerifyRefresh(token string) (*jwt.Claims, error)
}

type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, password, hash string) (bool, error)
	DummyCompare(ctx context.Context, password string) error
}
