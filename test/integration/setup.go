package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap/zaptest"

	handler "github.com/vncsmyrnk/bookswap/internal/adapters/handler/http"
	mongorepo "github.com/vncsmyrnk/bookswap/internal/adapters/repository/mongo"
	pgrepo "github.com/vncsmyrnk/bookswap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
	"github.com/vncsmyrnk/bookswap/internal/core/services"
	"github.com/vncsmyrnk/bookswap/internal/validation"
)

const (
	accessSecret  = "test-access-secret"
	refreshSecret = "test-refresh-secret"
)

type fakeUploader struct{}

func (fakeUploader) Upload(_ context.Context, image ports.CoverImage, folder string) (string, error) {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", folder, image.Filename), nil
}

type TestApp struct {
	Server *httptest.Server
	Client *http.Client

	// Exactly one of DB and Mongo is set, depending on the store.
	DB    *sql.DB
	Mongo *mongo.Database

	teardown []func()
}

func (app *TestApp) Teardown(t *testing.T) {
	t.Helper()
	app.Server.Close()
	for i := len(app.teardown) - 1; i >= 0; i-- {
		app.teardown[i]()
	}
}

type storeSetup func(t *testing.T) (*TestApp, ports.UserRepository, ports.BookRepository)

// forEachStore runs fn against a fresh Postgres and a fresh MongoDB container.
func forEachStore(t *testing.T, fn func(t *testing.T, app *TestApp)) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	stores := map[string]storeSetup{
		"postgres": setupPostgresStore,
		"mongo":    setupMongoStore,
	}
	for name, setup := range stores {
		t.Run(name, func(t *testing.T) {
			app, users, books := setup(t)
			startServer(t, app, users, books)
			defer app.Teardown(t)
			fn(t, app)
		})
	}
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("book_exchange"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func setupPostgresStore(t *testing.T) (*TestApp, ports.UserRepository, ports.BookRepository) {
	ctx := context.Background()
	container, dsn, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, pgrepo.Migrate(db))

	app := &TestApp{DB: db}
	app.teardown = append(app.teardown, func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}, func() { db.Close() })

	return app, pgrepo.NewUserRepository(db), pgrepo.NewBookRepository(db)
}

func setupMongoStore(t *testing.T) (*TestApp, ports.UserRepository, ports.BookRepository) {
	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongorepo.Connect(ctx, uri)
	require.NoError(t, err)

	db := client.Database("book_exchange")
	require.NoError(t, mongorepo.EnsureIndexes(ctx, db))

	app := &TestApp{Mongo: db}
	app.teardown = append(app.teardown, func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}, func() { _ = client.Disconnect(context.Background()) })

	return app, mongorepo.NewUserRepository(db), mongorepo.NewBookRepository(db)
}

func startServer(t *testing.T, app *TestApp, users ports.UserRepository, books ports.BookRepository) {
	t.Helper()
	log := zaptest.NewLogger(t)

	tokens := services.NewTokenService(services.TokenConfig{
		AccessSecret:  []byte(accessSecret),
		AccessTTL:     time.Hour,
		RefreshSecret: []byte(refreshSecret),
		RefreshTTL:    24 * time.Hour,
	})
	authSvc := services.NewAuthService(users, tokens, validation.New())

	router := handler.NewHandler(handler.Router{
		Auth: handler.NewAuthenticator(authSvc, log),
		AuthHandler: handler.NewAuthHandler(authSvc, handler.CookieOptions{
			SameSite:   http.SameSiteLaxMode,
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		}, log),
		UserHandler:    handler.NewUserHandler(services.NewUserService(users), log),
		BookHandler:    handler.NewBookHandler(services.NewBookService(books, fakeUploader{}), 1<<20, log),
		AllowedOrigins: []string{"http://localhost:3000"},
		Log:            log,
	})

	app.Server = httptest.NewServer(router)
	app.Client = newClient(t)
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

// signAccessToken forges an access token for userID with the shared secret.
func signAccessToken(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(accessSecret))
	require.NoError(t, err)
	return token
}
