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

// CommentService handles comment CRUD with ownership enforcement.
type CommentService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(store store.Store, validator *validation.Validator, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateCommentRequest contains the data for a new comment.
type CreateCommentRequest struct {
	PostID  int64  `json:"post_id" validate:"required,gt=0"`
	Content string `json:"content" validate:"required"`
}

// UpdateCommentRequest contains a comment edit. Only content is
// mutable; the owner and parent post are fixed at creation.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create adds a comment owned by the principal. The parent post must
// exist and be live; a comment on a deleted post reports the post as
// not found.
func (s *CommentService) Create(ctx context.Context, principal *domain.User, req CreateCommentRequest) (*domain.Comment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.store.GetPost(ctx, req.PostID, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	comment := &domain.Comment{
		Content: req.Content,
		OwnerID: principal.ID,
		PostID:  req.PostID,
	}
	comment.InitTimestamps()

	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.Info("comment created", "comment_id", comment.ID, "post_id", req.PostID, "owner_id", principal.ID)

	return s.Get(ctx, principal, comment.ID, false)
}

// Get retrieves one comment with its owner loaded. includeDeleted
// requires superuser privilege.
func (s *CommentService) Get(ctx context.Context, principal *domain.User, id int64, includeDeleted bool) (*domain.Comment, error) {
	if err := checkIncludeDeleted(principal, includeDeleted); err != nil {
		return nil, err
	}

	comment, err := s.store.GetComment(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("comment not found")
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// List returns one window of comments plus the matching total. A
// non-zero postID narrows the listing to that post's comments.
func (s *CommentService) List(ctx context.Context, principal *domain.User, window store.Window, postID int64, includeDeleted bool) (*store.Page[*domain.Comment], error) {
	if err := checkIncludeDeleted(principal, includeDeleted); err != nil {
		return nil, err
	}

	page, err := s.store.ListComments(ctx, window, store.CommentFilter{PostID: postID}, includeDeleted)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code == store.ErrInvalidInput.Code {
			return nil, domainerrors.InvalidArgument(storeErr.Message)
		}
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return page, nil
}

// Update edits a live comment's content. Only the owner or a superuser
// may edit.
func (s *CommentService) Update(ctx context.Context, principal *domain.User, id int64, req UpdateCommentRequest) (*domain.Comment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	comment, err := s.store.GetComment(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("comment not found")
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	if !domain.Can(principal, domain.ActionUpdate, comment) {
		return nil, domainerrors.Forbidden("you do not own this comment")
	}

	comment.Content = req.Content
	comment.Touch()

	if err := s.store.UpdateComment(ctx, comment); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("comment not found")
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	return s.Get(ctx, principal, id, false)
}

// Delete soft-deletes a live comment. Only the owner or a superuser
// may delete.
func (s *CommentService) Delete(ctx context.Context, principal *domain.User, id int64) error {
	comment, err := s.store.GetComment(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("comment not found")
		}
		return fmt.Errorf("get comment: %w", err)
	}

	if !domain.Can(principal, domain.ActionDelete, comment) {
		return domainerrors.Forbidden("you do not own this comment")
	}

	if err := s.store.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("comment not found")
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.Info("comment deleted", "comment_id", id, "by", principal.ID)
	return nil
}
