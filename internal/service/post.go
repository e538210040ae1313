package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// PostService handles post CRUD with ownership enforcement.
//
// Mutations follow a fixed order: resolve the resource first, then
// check the policy, then act. A caller without rights on an existing
// post gets a forbidden error, not a not-found one; resource IDs are
// not treated as secrets.
type PostService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(store store.Store, validator *validation.Validator, logger *slog.Logger) *PostService {
	return &PostService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreatePostRequest contains the data for a new post.
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// UpdatePostRequest contains a partial post update. Nil fields are
// left untouched. Ownership is not part of the surface at all.
type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,max=255"`
	Content *string `json:"content"`
}

// Create adds a post owned by the principal. Any active user may
// create posts; the owner is always the caller, never a field.
func (s *PostService) Create(ctx context.Context, principal *domain.User, req CreatePostRequest) (*domain.Post, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:   req.Title,
		Content: req.Content,
		OwnerID: principal.ID,
	}
	post.InitTimestamps()

	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.logger.Info("post created", "post_id", post.ID, "owner_id", principal.ID)

	// Re-read so the response carries loaded relations.
	return s.Get(ctx, principal, post.ID, false)
}

// Get retrieves one post with its owner, comments and tags.
// includeDeleted widens the read to soft-deleted rows and requires
// superuser privilege.
func (s *PostService) Get(ctx context.Context, principal *domain.User, id int64, includeDeleted bool) (*domain.Post, error) {
	if err := checkIncludeDeleted(principal, includeDeleted); err != nil {
		return nil, err
	}

	post, err := s.store.GetPost(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// List returns one window of posts plus the matching total.
func (s *PostService) List(ctx context.Context, principal *domain.User, window store.Window, includeDeleted bool) (*store.Page[*domain.Post], error) {
	if err := checkIncludeDeleted(principal, includeDeleted); err != nil {
		return nil, err
	}

	page, err := s.store.ListPosts(ctx, window, includeDeleted)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code == store.ErrInvalidInput.Code {
			return nil, domainerrors.InvalidArgument(storeErr.Message)
		}
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return page, nil
}

// Update edits a live post's title or content. Only the owner or a
// superuser may edit.
func (s *PostService) Update(ctx context.Context, principal *domain.User, id int64, req UpdatePostRequest) (*domain.Post, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	post, err := s.store.GetPost(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	if !domain.Can(principal, domain.ActionUpdate, post) {
		return nil, domainerrors.Forbidden("you do not own this post")
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	post.Touch()

	if err := s.store.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	return s.Get(ctx, principal, id, false)
}

// Delete soft-deletes a live post. Only the owner or a superuser may
// delete.
func (s *PostService) Delete(ctx context.Context, principal *domain.User, id int64) error {
	post, err := s.store.GetPost(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("post not found")
		}
		return fmt.Errorf("get post: %w", err)
	}

	if !domain.Can(principal, domain.ActionDelete, post) {
		return domainerrors.Forbidden("you do not own this post")
	}

	if err := s.store.DeletePost(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("post not found")
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.logger.Info("post deleted", "post_id", id, "by", principal.ID)
	return nil
}

// checkIncludeDeleted rejects include-deleted reads from anyone who
// may not see through soft deletion.
func checkIncludeDeleted(principal *domain.User, includeDeleted bool) error {
	if includeDeleted && !domain.CanViewDeleted(principal) {
		return domainerrors.InsufficientPrivilege("superuser privilege required to view deleted records")
	}
	return nil
}
