package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

type TokenConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

type TokenService struct {
	access     *jwtauth.JWTAuth
	refresh    *jwtauth.JWTAuth
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{
		access:     jwtauth.New("HS256", cfg.AccessSecret, nil),
		refresh:    jwtauth.New("HS256", cfg.RefreshSecret, nil),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
	}
}

func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"fullName": user.FullName,
		"iat":      now.Unix(),
		"exp":      now.Add(s.accessTTL).Unix(),
	}

	_, token, err := s.access.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": now.Add(s.refreshTTL).Unix(),
		// jti keeps two refresh tokens issued within the same second distinct.
		"jti": uuid.NewString(),
	}

	_, token, err := s.refresh.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, nil
}

func (s *TokenService) Verify(token string, class ports.TokenClass) (*ports.Claims, error) {
	auth := s.access
	if class == ports.RefreshToken {
		auth = s.refresh
	}

	t, err := jwtauth.VerifyToken(auth, token)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return nil, domain.ErrTokenExpired.WithCause(err)
		}
		return nil, domain.ErrInvalidToken.WithCause(err)
	}

	claims := &ports.Claims{
		UserID:    t.Subject(),
		IssuedAt:  t.IssuedAt(),
		ExpiresAt: t.Expiration(),
	}
	if claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}

	private := t.PrivateClaims()
	claims.Email, _ = private["email"].(string)
	claims.FullName, _ = private["fullName"].(string)

	return claims, nil
}
