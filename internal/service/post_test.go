package service

import (
	"context"
	"testing"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostCreateAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "author@example.com")
	post := env.createPost(t, owner, "Hello")

	assert.Equal(t, owner.ID, post.OwnerID)
	require.NotNil(t, post.OwnerUser)
	assert.Equal(t, owner.ID, post.OwnerUser.ID)

	got, err := env.posts.Get(ctx, owner, post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
}

func TestPostUpdate_OwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "author@example.com")
	other := env.registerUser(t, "stranger@example.com")
	super := env.createSuperuser(t, "root@example.com")
	post := env.createPost(t, owner, "Mine")

	title := "Hijacked"
	_, err := env.posts.Update(ctx, other, post.ID, UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// The owner may edit.
	title = "Edited"
	updated, err := env.posts.Update(ctx, owner, post.ID, UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)

	// A superuser bypasses ownership.
	title = "Moderated"
	updated, err = env.posts.Update(ctx, super, post.ID, UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Title)
}

func TestPostUpdate_ExistenceBeforePolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.registerUser(t, "user@example.com")

	// A missing post is not found even for a caller who could never
	// have owned it: existence resolves before policy.
	title := "x"
	_, err := env.posts.Update(ctx, user, 9999, UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPostDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "author@example.com")
	other := env.registerUser(t, "stranger@example.com")
	post := env.createPost(t, owner, "Doomed")

	assert.ErrorIs(t, env.posts.Delete(ctx, other, post.ID), domainerrors.ErrForbidden)
	require.NoError(t, env.posts.Delete(ctx, owner, post.ID))

	// Gone from normal reads; the second delete resolves to not found.
	_, err := env.posts.Get(ctx, owner, post.ID, false)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, env.posts.Delete(ctx, owner, post.ID), domainerrors.ErrNotFound)
}

func TestPostGet_IncludeDeletedGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "author@example.com")
	super := env.createSuperuser(t, "root@example.com")
	post := env.createPost(t, owner, "Hidden")
	require.NoError(t, env.posts.Delete(ctx, owner, post.ID))

	// Even the former owner cannot see through soft deletion.
	_, err := env.posts.Get(ctx, owner, post.ID, true)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientPrivilege)

	got, err := env.posts.Get(ctx, super, post.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}

func TestPostList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.registerUser(t, "author@example.com")
	for _, title := range []string{"one", "two", "three"} {
		env.createPost(t, owner, title)
	}

	page, err := env.posts.List(ctx, owner, store.Window{Offset: 1, Limit: 2}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)

	// Invalid windows surface as invalid argument.
	_, err = env.posts.List(ctx, owner, store.Window{Offset: -1, Limit: 10}, false)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	// include_deleted listing is privilege gated.
	_, err = env.posts.List(ctx, owner, store.DefaultWindow(), true)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientPrivilege)
}
