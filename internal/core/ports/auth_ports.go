package ports

import (
	"context"
	"time"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
)

type TokenClass int

const (
	AccessToken TokenClass = iota
	RefreshToken
)

func (c TokenClass) String() string {
	if c == RefreshToken {
		return "refresh"
	}
	return "access"
}

// Claims are the decoded contents of a verified token. Email and FullName
// are only present on access tokens.
type Claims struct {
	UserID    string
	Email     string
	FullName  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenService interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken(user *domain.User) (string, error)
	Verify(token string, class TokenClass) (*Claims, error)
}

type RegisterInput struct {
	FullName     string  `json:"fullName" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,max=72"`
	MobileNumber string  `json:"mobileNumber" validate:"required"`
	Role         *string `json:"role" validate:"omitnil,oneof=owner seeker"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, user *domain.User) error
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
	VerifyPassword(user *domain.User, candidate string) bool
}
