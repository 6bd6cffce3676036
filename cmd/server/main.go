package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/bookswap/internal/adapters/handler/http"
	"github.com/vncsmyrnk/bookswap/internal/adapters/repository/memory"
	mongorepo "github.com/vncsmyrnk/bookswap/internal/adapters/repository/mongo"
	"github.com/vncsmyrnk/bookswap/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/bookswap/internal/adapters/storage/s3"
	"github.com/vncsmyrnk/bookswap/internal/config"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
	"github.com/vncsmyrnk/bookswap/internal/core/services"
	"github.com/vncsmyrnk/bookswap/internal/logger"
	"github.com/vncsmyrnk/bookswap/internal/ratelimit"
	"github.com/vncsmyrnk/bookswap/internal/validation"
)

type repositories struct {
	users ports.UserRepository
	books ports.BookRepository
	close func(context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg, err := logger.New(cfg.IsProduction(), cfg.App.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		logg.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	var uploader ports.ImageUploader
	if cfg.S3.Enabled() {
		uploader, err = s3.NewUploader(ctx, s3.Config{
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			Bucket:        cfg.S3.Bucket,
			PublicBaseURL: cfg.S3.PublicBaseURL,
			Timeout:       cfg.Upload.Timeout,
		})
		if err != nil {
			logg.Fatal("failed to configure image uploads", zap.Error(err))
		}
	} else {
		logg.Warn("S3_BUCKET is not set; cover image uploads are disabled")
	}

	tokenSvc := services.NewTokenService(services.TokenConfig{
		AccessSecret:  []byte(cfg.Token.AccessSecret),
		AccessTTL:     cfg.Token.AccessExpiry,
		RefreshSecret: []byte(cfg.Token.RefreshSecret),
		RefreshTTL:    cfg.Token.RefreshExpiry,
	})
	authSvc := services.NewAuthService(repos.users, tokenSvc, validation.New())
	userSvc := services.NewUserService(repos.users)
	bookSvc := services.NewBookService(repos.books, uploader)

	limiter := ratelimit.New(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst, 10*time.Minute)
	defer limiter.Stop()

	handler := http.NewHandler(http.Router{
		Auth: http.NewAuthenticator(authSvc, logg),
		AuthHandler: http.NewAuthHandler(authSvc, http.CookieOptions{
			Domain:     cfg.Cookie.Domain,
			Secure:     cfg.Cookie.Secure,
			SameSite:   cfg.Cookie.SameSite,
			AccessTTL:  cfg.Token.AccessExpiry,
			RefreshTTL: cfg.Token.RefreshExpiry,
		}, logg),
		UserHandler:    http.NewUserHandler(userSvc, logg),
		BookHandler:    http.NewBookHandler(bookSvc, cfg.Upload.MaxSize, logg),
		AuthLimiter:    limiter,
		AllowedOrigins: cfg.Server.CORSOrigins,
		TrustProxy:     cfg.Server.TrustProxy,
		Log:            logg,
	})

	server := &stdhttp.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logg.Info("server listening", zap.String("addr", server.Addr), zap.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logg.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error("server shutdown failed", zap.Error(err))
	}
	if err := repos.close(shutdownCtx); err != nil {
		logg.Error("store close failed", zap.Error(err))
	}
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := mongorepo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &repositories{
			users: mongorepo.NewUserRepository(db),
			books: mongorepo.NewBookRepository(db),
			close: client.Disconnect,
		}, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			users: postgres.NewUserRepository(db),
			books: postgres.NewBookRepository(db),
			close: func(context.Context) error { return db.Close() },
		}, nil

	default:
		store := memory.NewStore()
		return &repositories{
			users: memory.NewUserRepository(store),
			books: memory.NewBookRepository(store),
			close: func(context.Context) error { return nil },
		}, nil
	}
}
