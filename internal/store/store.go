// Package store defines the persistence interface for the Inkwell server.
package store

import (
	"context"

	"github.com/inkwellapp/inkwell-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Reads that take an includeDeleted flag trust it as already
// authorized; the privilege check belongs to the caller. When the flag
// is false, soft-deleted rows are invisible: lookups report not-found
// and lists exclude them.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64, includeDeleted bool) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, window Window, includeDeleted bool) (*Page[*domain.User], error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id int64) error

	// Posts
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id int64, includeDeleted bool) (*domain.Post, error)
	ListPosts(ctx context.Context, window Window, includeDeleted bool) (*Page[*domain.Post], error)
	UpdatePost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id int64) error

	// Comments
	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, id int64, includeDeleted bool) (*domain.Comment, error)
	ListComments(ctx context.Context, window Window, filter CommentFilter, includeDeleted bool) (*Page[*domain.Comment], error)
	UpdateComment(ctx context.Context, comment *domain.Comment) error
	DeleteComment(ctx context.Context, id int64) error

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id int64, includeDeleted bool) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context, window Window, includeDeleted bool) (*Page[*domain.Tag], error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id int64) error

	// Post/tag associations. Attach and detach are idempotent and do
	// not advance the post's updated_at.
	AttachTag(ctx context.Context, postID, tagID int64) error
	DetachTag(ctx context.Context, postID, tagID int64) error
}

// CommentFilter narrows a comment listing. Zero value means no filter.
type CommentFilter struct {
	PostID int64 // restrict to one post when non-zero
}
