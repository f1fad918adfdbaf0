package auth

import (
	"time"

	"tasktracker/internal/domain"
	"tasktracker/internal/pkg/jwt"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest is optional; without a token every session of the user ends.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UserPublic struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type TokensResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	User   UserPublic     `json:"user"`
	Tokens TokensResponse `json:"tokens"`
}

func toUserPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func toTokens(p *jwt.Pair) TokensResponse {
	return TokensResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}
