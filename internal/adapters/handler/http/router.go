package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/bookswap/internal/logger"
	"github.com/vncsmyrnk/bookswap/internal/ratelimit"
)

type Router struct {
	Auth           *Authenticator
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	BookHandler    *BookHandler
	AuthLimiter    *ratelimit.Limiter
	// AllowedOrigins lists the browser origins allowed to make credentialed
	// cross-origin requests. Empty disables CORS.
	AllowedOrigins []string
	// TrustProxy derives the client address, and so the rate limit key,
	// from forwarding headers.
	TrustProxy     bool
	Log            *zap.Logger
}

func NewHandler(rt Router) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if rt.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(logger.RequestLogger(rt.Log))
	r.Use(middleware.Recoverer)
	// go-chi/cors treats an empty origin list as "allow all".
	if len(rt.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   rt.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondFailure(w, http.StatusNotFound, nil, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondFailure(w, http.StatusMethodNotAllowed, nil, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]string{"status": "up", "time": time.Now().UTC().Format(time.RFC3339)}, "OK")
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if rt.AuthLimiter != nil {
					r.Use(RateLimit(rt.AuthLimiter, rt.Log))
				}
				r.Post("/register", rt.AuthHandler.Register)
				r.Post("/login", rt.AuthHandler.Login)
			})
			r.Post("/refresh-token", rt.AuthHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(rt.Auth.RequireUser)
				r.Post("/logout", rt.AuthHandler.Logout)
				r.Get("/me", rt.UserHandler.GetMe)
			})
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", rt.BookHandler.ListBooks)
			r.Get("/{id}", rt.BookHandler.GetBook)

			r.Group(func(r chi.Router) {
				r.Use(rt.Auth.RequireOwner)
				r.Post("/list", rt.BookHandler.ListBook)
				r.Patch("/update/{id}", rt.BookHandler.UpdateBook)
				r.Patch("/status/{id}", rt.BookHandler.UpdateStatus)
			})
		})
	})

	return r
}
