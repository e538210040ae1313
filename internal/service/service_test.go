package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

// testEnv bundles every service over one temporary store.
type testEnv struct {
	store    store.Store
	auth     *AuthService
	users    *UserService
	posts    *PostService
	comments *CommentService
	tags     *TagService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	tokenService, err := auth.NewTokenService(testKeyHex, time.Hour)
	require.NoError(t, err)

	v := validation.New()
	limiter := ratelimit.New(0.001, 3)

	return &testEnv{
		store:    s,
		auth:     NewAuthService(s, tokenService, v, limiter, logger),
		users:    NewUserService(s, v, logger),
		posts:    NewPostService(s, v, logger),
		comments: NewCommentService(s, v, logger),
		tags:     NewTagService(s, v, logger),
	}
}

// registerUser registers a regular active account through the service.
func (env *testEnv) registerUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := env.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

// createSuperuser inserts a superuser directly through the store.
func (env *testEnv) createSuperuser(t *testing.T, email string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		Superuser:    true,
	}
	user.InitTimestamps()
	require.NoError(t, env.store.CreateUser(context.Background(), user))
	return user
}

// createPost creates a post owned by the given user.
func (env *testEnv) createPost(t *testing.T, owner *domain.User, title string) *domain.Post {
	t.Helper()
	post, err := env.posts.Create(context.Background(), owner, CreatePostRequest{
		Title:   title,
		Content: "content",
	})
	require.NoError(t, err)
	return post
}
