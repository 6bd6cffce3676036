// Package config loads service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Cookie   CookieConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Token    TokenConfig
	S3       S3Config
	Upload   UploadConfig
	Auth     AuthConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy   bool
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", s.Port)
}

type CookieConfig struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI      string
	Database string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DB       string
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

type TokenConfig struct {
	AccessSecret  string
	AccessExpiry  time.Duration
	RefreshSecret string
	RefreshExpiry time.Duration
}

type S3Config struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// Enabled reports whether cover uploads can be served.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

type UploadConfig struct {
	Timeout time.Duration
	MaxSize int64
}

type AuthConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := bind(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadPostgres reads only the Postgres settings, for tools that do not
// serve HTTP.
func LoadPostgres() PostgresConfig {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return bind(v).Postgres
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "60s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")
	v.SetDefault("CORS_ORIGIN", "")
	v.SetDefault("TRUST_PROXY", false)

	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_SAMESITE", "lax")

	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "book_exchange")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "book_exchange")

	v.SetDefault("ACCESS_TOKEN_EXPIRY", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRY", "240h")

	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("UPLOAD_TIMEOUT", "30s")
	v.SetDefault("MAX_UPLOAD_SIZE", 5<<20)

	v.SetDefault("AUTH_RATE_LIMIT_RPS", 5)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 10)
}

func bind(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.App.Env = v.GetString("APP_ENV")
	cfg.App.LogLevel = v.GetString("LOG_LEVEL")

	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")
	cfg.Server.CORSOrigins = splitList(v.GetString("CORS_ORIGIN"))
	cfg.Server.TrustProxy = v.GetBool("TRUST_PROXY")

	cfg.Cookie.Domain = v.GetString("COOKIE_DOMAIN")
	cfg.Cookie.Secure = v.GetBool("COOKIE_SECURE")
	cfg.Cookie.SameSite = parseSameSite(v.GetString("COOKIE_SAMESITE"))

	cfg.Store.Driver = strings.ToLower(v.GetString("STORE_DRIVER"))
	cfg.Mongo.URI = v.GetString("MONGODB_URI")
	cfg.Mongo.Database = v.GetString("MONGODB_DATABASE")

	cfg.Postgres.Host = v.GetString("POSTGRES_HOST")
	cfg.Postgres.Port = v.GetInt("POSTGRES_PORT")
	cfg.Postgres.User = v.GetString("POSTGRES_USER")
	cfg.Postgres.Password = v.GetString("POSTGRES_PASSWORD")
	cfg.Postgres.DB = v.GetString("POSTGRES_DB")

	cfg.Token.AccessSecret = v.GetString("ACCESS_TOKEN_SECRET")
	cfg.Token.AccessExpiry = v.GetDuration("ACCESS_TOKEN_EXPIRY")
	cfg.Token.RefreshSecret = v.GetString("REFRESH_TOKEN_SECRET")
	cfg.Token.RefreshExpiry = v.GetDuration("REFRESH_TOKEN_EXPIRY")

	cfg.S3.Region = v.GetString("S3_REGION")
	cfg.S3.Endpoint = v.GetString("S3_ENDPOINT")
	cfg.S3.AccessKey = v.GetString("S3_ACCESS_KEY")
	cfg.S3.SecretKey = v.GetString("S3_SECRET_KEY")
	cfg.S3.Bucket = v.GetString("S3_BUCKET")
	cfg.S3.PublicBaseURL = v.GetString("S3_PUBLIC_BASE_URL")

	cfg.Upload.Timeout = v.GetDuration("UPLOAD_TIMEOUT")
	cfg.Upload.MaxSize = v.GetInt64("MAX_UPLOAD_SIZE")

	cfg.Auth.RateLimitRPS = v.GetFloat64("AUTH_RATE_LIMIT_RPS")
	cfg.Auth.RateLimitBurst = v.GetInt("AUTH_RATE_LIMIT_BURST")

	return cfg
}

func (c *Config) Validate() error {
	if c.Token.AccessSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.Token.RefreshSecret == "" {
		return errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if c.Token.AccessExpiry <= 0 || c.Token.RefreshExpiry <= 0 {
		return errors.New("token expiries must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	// Session cookies are sent cross-origin, so every origin must be explicit.
	for _, origin := range c.Server.CORSOrigins {
		if strings.Contains(origin, "*") {
			return fmt.Errorf("CORS_ORIGIN must list explicit origins, got %q", origin)
		}
	}

	switch c.Store.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("MONGODB_URI and MONGODB_DATABASE are required for the mongo driver")
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_SIZE: %d", c.Upload.MaxSize)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
