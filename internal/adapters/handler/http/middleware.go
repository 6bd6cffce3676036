package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
	"github.com/vncsmyrnk/bookswap/internal/ratelimit"
)

type contextKey string

const userContextKey contextKey = "user"

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

var (
	errMissingToken = domain.Unauthorized("Unauthorized request")
	errBadToken     = domain.Unauthorized("Invalid access token")
	errNotOwner     = domain.Unauthorized("Not authorized")
	errTooMany      = &domain.Error{Code: domain.CodeRateLimited, Message: "Too many requests, please try again later"}
)

// Authenticator resolves the session user from the access token.
type Authenticator struct {
	auth ports.AuthService
	log  *zap.Logger
}

func NewAuthenticator(auth ports.AuthService, log *zap.Logger) *Authenticator {
	return &Authenticator{auth: auth, log: log}
}

func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return a.require(next, false)
}

func (a *Authenticator) RequireOwner(next http.Handler) http.Handler {
	return a.require(next, true)
}

func (a *Authenticator) require(next http.Handler, ownerOnly bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessTokenFromRequest(r)
		if token == "" {
			respondError(w, r, a.log, errMissingToken)
			return
		}

		user, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			if isAuthFailure(err) {
				respondError(w, r, a.log, errBadToken)
				return
			}
			respondError(w, r, a.log, err)
			return
		}

		if ownerOnly && !user.IsOwner() {
			respondError(w, r, a.log, errNotOwner)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUser returns the user attached by the session middleware.
func CurrentUser(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

// accessTokenFromRequest prefers the cookie over the Authorization header.
func accessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(accessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return jwtauth.TokenFromHeader(r)
}

func isAuthFailure(err error) bool {
	return errors.Is(err, domain.ErrInvalidToken) ||
		errors.Is(err, domain.ErrTokenExpired) ||
		errors.Is(err, domain.ErrUnauthorized)
}

// RateLimit rejects clients that exceed the limiter's budget.
func RateLimit(limiter *ratelimit.Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				respondError(w, r, log, errTooMany)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
