package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/bookswap/internal/core/ports"
)

// CookieOptions controls the session cookies written on login and refresh.
type CookieOptions struct {
	Domain     string
	Secure     bool
	SameSite   http.SameSite
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieOptions
	log         *zap.Logger
}

func NewAuthHandler(authService ports.AuthService, cookies CookieOptions, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		log:         log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input ports.RegisterInput
	if isJSON(r) {
		if err := decodeJSON(w, r, &input); err != nil {
			respondError(w, r, h.log, err)
			return
		}
	} else {
		if err := parseForm(w, r, 0); err != nil {
			respondError(w, r, h.log, err)
			return
		}
		input = ports.RegisterInput{
			FullName:     r.PostFormValue("fullName"),
			Email:        r.PostFormValue("email"),
			Password:     r.PostFormValue("password"),
			MobileNumber: r.PostFormValue("mobileNumber"),
			Role:         formValue(r, "role"),
		}
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respond(w, http.StatusCreated, user, "User Registered Successfully :)")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input ports.LoginInput
	if isJSON(r) {
		if err := decodeJSON(w, r, &input); err != nil {
			respondError(w, r, h.log, err)
			return
		}
	} else {
		if err := parseForm(w, r, 0); err != nil {
			respondError(w, r, h.log, err)
			return
		}
		input = ports.LoginInput{
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	h.setSessionCookies(w, result)
	respond(w, http.StatusOK, result, "User successfully logged In")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), CurrentUser(r)); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	h.expireCookies(w)
	respond(w, http.StatusOK, nil, "User logged Out")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates the token pair. The refresh token is read from its
// cookie, falling back to the request body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var token string
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		if isJSON(r) {
			var req refreshRequest
			if err := decodeJSON(w, r, &req); err != nil {
				respondError(w, r, h.log, err)
				return
			}
			token = req.RefreshToken
		} else if err := parseForm(w, r, 0); err == nil {
			token = r.PostFormValue("refreshToken")
		}
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		h.expireCookies(w)
		respondError(w, r, h.log, err)
		return
	}

	h.setSessionCookies(w, result)
	respond(w, http.StatusOK, result, "Access token refreshed")
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, result *ports.LoginResult) {
	http.SetCookie(w, h.cookie(accessTokenCookie, result.AccessToken, h.cookies.AccessTTL))
	http.SetCookie(w, h.cookie(refreshTokenCookie, result.RefreshToken, h.cookies.RefreshTTL))
}

func (h *AuthHandler) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
		MaxAge:   int(ttl.Seconds()),
	}
}

func (h *AuthHandler) expireCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		c := h.cookie(name, "", 0)
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
}
