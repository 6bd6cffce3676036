package ports

import (
	"context"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
)

// UserRepository lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	// SetRefreshToken stores the digest of the active refresh token; an
	// empty digest clears it.
	SetRefreshToken(ctx context.Context, id string, digest string) error
}
