package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/bookswap/internal/core/domain"
	"github.com/vncsmyrnk/bookswap/internal/core/ports"
	"github.com/vncsmyrnk/bookswap/internal/validation"
)

const (
	bcryptCost       = 10
	// bcrypt rejects passwords longer than 72 bytes.
	maxPasswordBytes = 72
)

var (
	errRefreshReused   = domain.Unauthorized("Refresh token is expired or used")
	errPasswordTooLong = domain.Validation("Password must be at most 72 bytes")
)

type AuthService struct {
	userRepo  ports.UserRepository
	tokens    ports.TokenService
	validator *validation.Validator
}

func NewAuthService(userRepo ports.UserRepository, tokens ports.TokenService, validator *validation.Validator) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validator,
	}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalizeEmail(input.Email)
	input.MobileNumber = strings.TrimSpace(input.MobileNumber)
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		input.Role = &role
	}
	if strings.TrimSpace(input.Password) == "" {
		input.Password = ""
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	if len(input.Password) > maxPasswordBytes {
		return nil, errPasswordTooLong
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleSeeker
	if input.Role != nil {
		role = domain.Role(*input.Role)
	}

	user := &domain.User{
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		MobileNumber: input.MobileNumber,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user.Sanitized(), nil
}

func (s *AuthService) VerifyPassword(user *domain.User, candidate string) bool {
	if user == nil || user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil
}

func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.Validation("Email and Password is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if !s.VerifyPassword(user, input.Password) {
		return nil, domain.ErrInvalidPassword
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthorized
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, ""); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.LoginResult, error) {
	if refreshToken == "" {
		return nil, domain.Unauthorized("Unauthorized request")
	}

	claims, err := s.tokens.Verify(refreshToken, ports.RefreshToken)
	if err != nil {
		return nil, domain.Unauthorized("Invalid refresh token").WithCause(err)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.Unauthorized("Invalid refresh token")
	}

	digest := s.hashToken(refreshToken)
	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(digest), []byte(user.RefreshToken)) != 1 {
		return nil, errRefreshReused
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.Verify(accessToken, ports.AccessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}

	return user.Sanitized(), nil
}

// issueTokenPair signs both tokens and mirrors the refresh token digest onto
// the user, replacing any previously active refresh token.
func (s *AuthService) issueTokenPair(ctx context.Context, user *domain.User) (*ports.LoginResult, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, s.hashToken(refreshToken)); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &ports.LoginResult{
		User:         user.Sanitized(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
