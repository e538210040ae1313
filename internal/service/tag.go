package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/util"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// TagService handles the tag lifecycle and post/tag membership.
// Tag create, rename and delete are superuser-only; attaching a tag to
// a post belongs to the post's owner (or a superuser), because the
// membership is a property of the post, not of the tag.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, validator *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateTagRequest contains the data for a new tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateTagRequest contains a tag rename.
type UpdateTagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Create adds a tag. Superuser only. The name is stored as the caller
// spelled it (trimmed), but uniqueness is judged on its normalized
// slug, so "Slow Burn" and "slow-burn" are the same tag. Names must be
// free among live tags; a soft-deleted tag's name is reusable.
func (s *TagService) Create(ctx context.Context, principal *domain.User, req CreateTagRequest) (*domain.Tag, error) {
	if !domain.CanManageTags(principal) {
		return nil, domainerrors.InsufficientPrivilege("superuser privilege required to manage tags")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if util.NormalizeTagSlug(name) == "" {
		return nil, domainerrors.InvalidArgument("tag name must contain at least one letter or digit")
	}

	tag := &domain.Tag{Name: name}
	tag.InitTimestamps()

	if err := s.store.CreateTag(ctx, tag); err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code == store.ErrAlreadyExists.Code {
			return nil, domainerrors.Conflict("tag name already in use")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name)

	return tag, nil
}

// Get retrieves one tag. includeDeleted requires superuser privilege.
func (s *TagService) Get(ctx context.Context, principal *domain.User, id int64, includeDeleted bool) (*domain.Tag, error) {
	if err := checkIncludeDeleted(principal, includeDeleted); err != nil {
		return nil, err
	}

	tag, err := s.store.GetTag(ctx, id, includeDeleted)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// List returns one window of tags plus the matching total.
func (s *TagService) List(ctx context.Context, principal *domain.User, window store.Window, includeDeleted bool) (*store.Page[*domain.Tag], error) {
	if err := checkIncludeDeleted(principal, includeDeleted); err != nil {
		return nil, err
	}

	page, err := s.store.ListTags(ctx, window, includeDeleted)
	if err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) && storeErr.Code == store.ErrInvalidInput.Code {
			return nil, domainerrors.InvalidArgument(storeErr.Message)
		}
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return page, nil
}

// Update renames a live tag. Superuser only. The new name follows the
// same spelling-preserving uniqueness rule as Create.
func (s *TagService) Update(ctx context.Context, principal *domain.User, id int64, req UpdateTagRequest) (*domain.Tag, error) {
	if !domain.CanManageTags(principal) {
		return nil, domainerrors.InsufficientPrivilege("superuser privilege required to manage tags")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if util.NormalizeTagSlug(name) == "" {
		return nil, domainerrors.InvalidArgument("tag name must contain at least one letter or digit")
	}

	tag, err := s.store.GetTag(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	tag.Name = name
	tag.Touch()

	if err := s.store.UpdateTag(ctx, tag); err != nil {
		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			switch storeErr.Code {
			case store.ErrAlreadyExists.Code:
				return nil, domainerrors.Conflict("tag name already in use")
			case store.ErrNotFound.Code:
				return nil, domainerrors.NotFound("tag not found")
			}
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// Delete soft-deletes a live tag. Superuser only. The tag drops out of
// every post it was attached to without touching those posts.
func (s *TagService) Delete(ctx context.Context, principal *domain.User, id int64) error {
	if !domain.CanManageTags(principal) {
		return domainerrors.InsufficientPrivilege("superuser privilege required to manage tags")
	}

	if err := s.store.DeleteTag(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Info("tag deleted", "tag_id", id)
	return nil
}

// Attach links a live tag to a live post. The post's owner or a
// superuser may attach; re-attaching an existing pair is a no-op.
func (s *TagService) Attach(ctx context.Context, principal *domain.User, postID, tagID int64) error {
	post, err := s.resolveMembership(ctx, postID, tagID)
	if err != nil {
		return err
	}

	if !domain.CanEditPostTags(principal, post) {
		return domainerrors.Forbidden("you do not own this post")
	}

	if err := s.store.AttachTag(ctx, postID, tagID); err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}

	s.logger.Info("tag attached", "post_id", postID, "tag_id", tagID, "by", principal.ID)
	return nil
}

// Detach unlinks a tag from a post. Same authorization as Attach;
// detaching an absent pair is a no-op.
func (s *TagService) Detach(ctx context.Context, principal *domain.User, postID, tagID int64) error {
	post, err := s.resolveMembership(ctx, postID, tagID)
	if err != nil {
		return err
	}

	if !domain.CanEditPostTags(principal, post) {
		return domainerrors.Forbidden("you do not own this post")
	}

	if err := s.store.DetachTag(ctx, postID, tagID); err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}

	s.logger.Info("tag detached", "post_id", postID, "tag_id", tagID, "by", principal.ID)
	return nil
}

// resolveMembership loads the live post and confirms the live tag
// exists, so existence failures surface before any policy decision.
func (s *TagService) resolveMembership(ctx context.Context, postID, tagID int64) (*domain.Post, error) {
	post, err := s.store.GetPost(ctx, postID, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("post not found")
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	if _, err := s.store.GetTag(ctx, tagID, false); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return post, nil
}
