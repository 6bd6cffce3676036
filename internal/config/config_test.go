package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "book_exchange", cfg.Mongo.Database)
	assert.Equal(t, 24*time.Hour, cfg.Token.AccessExpiry)
	assert.Equal(t, 240*time.Hour, cfg.Token.RefreshExpiry)
	assert.Equal(t, 30*time.Second, cfg.Upload.Timeout)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxSize)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cfg.Cookie.SameSite)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Server.TrustProxy)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("COOKIE_SAMESITE", "none")
	t.Setenv("CORS_ORIGIN", "https://a.example.com, https://b.example.com")
	t.Setenv("S3_BUCKET", "covers")
	t.Setenv("ACCESS_TOKEN_EXPIRY", "15m")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://postgres:postgres@db:5432/book_exchange?sslmode=disable", cfg.Postgres.DSN())
	assert.Equal(t, http.SameSiteNoneMode, cfg.Cookie.SameSite)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.Token.AccessExpiry)
	assert.True(t, cfg.Server.TrustProxy)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_WildcardOrigin(t *testing.T) {
	for _, origin := range []string{"*", "https://app.example.com, *", "https://*.example.com"} {
		t.Run(origin, func(t *testing.T) {
			setRequired(t)
			t.Setenv("CORS_ORIGIN", origin)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "CORS_ORIGIN")
		})
	}
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET")
}

func TestLoad_UnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}
