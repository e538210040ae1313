package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	validator    *validation.Validator
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	validator *validation.Validator,
	loginLimiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		validator:    validator,
		loginLimiter: loginLimiter,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`

	// ClientKey identifies the caller for login throttling.
	// Extracted from the request by the handler, never from the body.
	ClientKey string `json:"-"`
}

// AuthResponse contains the issued token and the authenticated user.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Register creates a new account. Accounts start active and without
// privilege; there is no way to register a superuser.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Active:       true,
		Superuser:    false,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code == store.ErrAlreadyExists.Code {
			return nil, domainerrors.Conflict("email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)

	return user, nil
}

// Login authenticates a user and issues an access token. A missing
// account and a wrong password produce the same error, so callers
// cannot probe which addresses are registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if s.loginLimiter != nil && req.ClientKey != "" && !s.loginLimiter.Allow(req.ClientKey) {
		return nil, domainerrors.RateLimited("too many login attempts, try again later")
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredential("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredential("invalid email or password")
	}

	if !user.IsActive() {
		return nil, domainerrors.InactiveAccount("account is inactive")
	}

	if s.loginLimiter != nil && req.ClientKey != "" {
		s.loginLimiter.Reset(req.ClientKey)
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokenService.AccessTokenDuration()),
	}, nil
}

// VerifyAccessToken validates a bearer token and resolves its subject
// to a live user. Every failure mode collapses into the same invalid
// credential error: a forged, expired or orphaned token all look alike.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, domainerrors.ErrInvalidCredential.WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID, false)
	if err != nil {
		return nil, domainerrors.ErrInvalidCredential.WithCause(err)
	}

	return user, nil
}

// RequireActive rejects principals whose account is switched off.
// Verification and the active gate are separate steps: a token for an
// inactive account is still a valid credential, it just can't act.
func (s *AuthService) RequireActive(user *domain.User) error {
	if !user.IsActive() {
		return domainerrors.InactiveAccount("account is inactive")
	}
	return nil
}

// RequireSuperuser rejects principals that are inactive or lack
// superuser privilege, in that order.
func (s *AuthService) RequireSuperuser(user *domain.User) error {
	if err := s.RequireActive(user); err != nil {
		return err
	}
	if !user.IsSuperuser() {
		return domainerrors.InsufficientPrivilege("superuser privilege required")
	}
	return nil
}
