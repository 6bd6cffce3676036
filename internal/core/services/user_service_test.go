package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/bookswap/internal/core/services"
)

func TestUserService_Lookups(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	require.NoError(t, f.users.SetRefreshToken(ctx, registered.ID, "digest"))

	svc := services.NewUserService(f.users)

	byID, err := svc.GetByID(ctx, registered.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, registered.Email, byID.Email)
	assert.Empty(t, byID.PasswordHash)
	assert.Empty(t, byID.RefreshToken)

	byEmail, err := svc.GetByEmail(ctx, " ANA@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, registered.ID, byEmail.ID)
}

func TestUserService_Missing(t *testing.T) {
	f := newAuthFixture()
	svc := services.NewUserService(f.users)

	user, err := svc.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.GetByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}
