package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// UserService handles account administration. Every operation here is
// superuser territory; the HTTP layer gates the routes before calls
// reach this service.
type UserService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUserService creates a new user administration service.
func NewUserService(store store.Store, validator *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateUserRequest contains the data for an administratively created account.
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	Active    *bool  `json:"active"`
	Superuser bool   `json:"superuser"`
}

// UpdateUserRequest contains a partial account update. Nil fields are
// left untouched.
type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email,max=255"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=1024"`
	Active    *bool   `json:"active"`
	Superuser *bool   `json:"superuser"`
}

// Create adds a new account. Unlike self-registration this may mint
// superusers and inactive accounts.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Active:       active,
		Superuser:    req.Superuser,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code == store.ErrAlreadyExists.Code {
			return nil, domainerrors.Conflict("email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "superuser", user.Superuser)

	return user, nil
}

// Get retrieves one account. The includeDeleted flag is trusted; the
// caller has already established the privilege to use it.
func (s *UserService) Get(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List returns one window of accounts plus the matching total.
func (s *UserService) List(ctx context.Context, window store.Window, includeDeleted bool) (*store.Page[*domain.User], error) {
	page, err := s.store.ListUsers(ctx, window, includeDeleted)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code == store.ErrInvalidInput.Code {
			return nil, domainerrors.InvalidArgument(storeErr.Message)
		}
		return nil, fmt.Errorf("list users: %w", err)
	}
	return page, nil
}

// Update applies a partial update to a live account. A password change
// rehashes; everything else is copied as-is.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Superuser != nil {
		user.Superuser = *req.Superuser
	}
	user.Touch()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			switch storeErr.Code {
			case store.ErrAlreadyExists.Code:
				return nil, domainerrors.Conflict("email already registered")
			case store.ErrNotFound.Code:
				return nil, domainerrors.NotFound("user not found")
			}
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// Delete soft-deletes a live account. Idempotency is deliberate
// one-way: the second delete sees no live row and reports not found.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
