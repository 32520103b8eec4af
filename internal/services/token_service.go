package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"medresearch/internal/config"
	"medresearch/internal/middleware"
	"medresearch/internal/models"
)

type TokenService interface {
	Issue(user *models.User, roles []string, now time.Time) (string, error)
}

// tokenService signs HS256 access tokens. The signing key and expiry come
// from the immutable config handed in at construction, not from ambient
// package state.
type tokenService struct {
	secret []byte
	expiry time.Duration
}

func NewTokenService(cfg config.JWTConfig) TokenService {
	return &tokenService{
		secret: []byte(cfg.Secret),
		expiry: cfg.Expiry(),
	}
}

func (s *tokenService) Issue(user *models.User, roles []string, now time.Time) (string, error) {
	claims := &middleware.Claims{
		UserID: user.ID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
