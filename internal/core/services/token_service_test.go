package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
	"github.com/vncsmyrnk/bookswap/internal/core/services"
)

func newTokenService(accessTTL, refreshTTL time.Duration) *services.TokenService {
	return services.NewTokenService(services.TokenConfig{
		AccessSecret:  []byte("access-secret"),
		AccessTTL:     accessTTL,
		RefreshSecret: []byte("refresh-secret"),
		RefreshTTL:    refreshTTL,
	})
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := newTokenService(time.Hour, 24*time.Hour)
	user := &domain.User{ID: "u-1", Email: "ana@example.com", FullName: "Ana Reader"}

	token, err := svc.IssueAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.Verify(token, ports.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana Reader", claims.FullName)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestTokenService_RefreshCarriesOnlySubject(t *testing.T) {
	svc := newTokenService(time.Hour, 24*time.Hour)
	user := &domain.User{ID: "u-1", Email: "ana@example.com"}

	first, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)
	second, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	claims, err := svc.Verify(first, ports.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Empty(t, claims.Email)
}

func TestTokenService_WrongClassIsInvalid(t *testing.T) {
	svc := newTokenService(time.Hour, 24*time.Hour)
	user := &domain.User{ID: "u-1"}

	refresh, err := svc.IssueRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.Verify(refresh, ports.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTokenService(-time.Minute, time.Hour)

	token, err := svc.IssueAccessToken(&domain.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = svc.Verify(token, ports.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
}

func TestTokenService_Garbage(t *testing.T) {
	svc := newTokenService(time.Hour, time.Hour)

	_, err := svc.Verify("not-a-jwt", ports.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidToken))
}
