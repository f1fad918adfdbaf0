package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/domain"
	"tasktracker/internal/pkg/jwt"
	"tasktracker/internal/pkg/password"
	"tasktracker/internal/pkg/validator"
	"tasktracker/internal/repository"

	"gorm.io/gorm"
)

// Service contains all business logic for authentication
type Service struct {
	users    UserRepositoryInterface
	sessions SessionStore
	tokens   TokenIssuer
	hasher   PasswordHasher
}

type Result struct {
	User   *domain.User
	Tokens *jwt.Pair
}

func NewService(users UserRepositoryInterface, sessions SessionStore, tokens TokenIssuer, hasher PasswordHasher) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}
	if len(req.Password) > password.MaxBytes {
		return nil, validator.Fail("password", fmt.Sprintf("password must be at most %d bytes", password.MaxBytes))
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Tokens: pair}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.hasher.DummyCompare(ctx, req.Password); err != nil {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := s.hasher.Compare(ctx, req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed; presenting it again fails.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*jwt.Pair, error) {
	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	claims, err := s.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	var pair *jwt.Pair
	err = s.sessions.Rotate(context.WithoutCancel(ctx), jwt.HashToken(req.RefreshToken), func(userID int64) (*domain.RefreshToken, error) {
		if userID != claims.UserID {
			return nil, ErrInvalidRefreshToken
		}
		issued, err := s.tokens.Issue(claims.Identity())
		if err != nil {
			return nil, fmt.Errorf("issue tokens: %w", err)
		}
		pair = issued
		return sessionRecord(userID, issued), nil
	})
	if errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes one session, or all of the user's sessions when refreshToken is empty.
func (s *Service) Logout(ctx context.Context, userID int64, refreshToken string) error {
	var hash string
	if refreshToken != "" {
		hash = jwt.HashToken(refreshToken)
	}
	return s.sessions.Revoke(ctx, userID, hash)
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Service) startSession(ctx context.Context, user *domain.User) (*jwt.Pair, error) {
	pair, err := s.tokens.Issue(jwt.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	if err := s.sessions.Persist(ctx, sessionRecord(user.ID, pair)); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}
	return pair, nil
}

func sessionRecord(userID int64, pair *jwt.Pair) *domain.RefreshToken {
	return &domain.RefreshToken{
		UserID:    userID,
		TokenHash: jwt.HashToken(pair.RefreshToken),
		ExpiresAt: pair.RefreshExpiresAt,
	}
}
