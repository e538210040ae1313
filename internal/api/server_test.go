package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/auth"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
	"github.com/inkwellapp/inkwell-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Use a test key (32 bytes as hex = 64 hex chars).
const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

const testPassword = "SecurePassword123!"

// testServer bundles the HTTP server with the store behind it so tests
// can seed data directly.
type testServer struct {
	server *Server
	store  store.Store
}

// testEnvelope mirrors response.Envelope with typed data for decoding.
type testEnvelope[T any] struct {
	Data    T                   `json:"data"`
	Error   *response.ErrorBody `json:"error"`
	Message string              `json:"message"`
	Success bool                `json:"success"`
}

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	// Discard logs in tests.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)

	v := validation.New()
	// httptest requests all share one RemoteAddr, so keep the login
	// limiter generous enough that tests never trip it.
	limiter := ratelimit.New(1000, 1000)

	authService := service.NewAuthService(s, tokenService, v, limiter, logger)
	userService := service.NewUserService(s, v, logger)
	postService := service.NewPostService(s, v, logger)
	commentService := service.NewCommentService(s, v, logger)
	tagService := service.NewTagService(s, v, logger)

	server := NewServer(authService, userService, postService, commentService, tagService, logger)

	return &testServer{server: server, store: s}
}

// do performs a request against the server. A non-nil body is encoded
// as JSON; a non-empty token is sent as a bearer credential.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.server.ServeHTTP(w, req)
	return w
}

// decodeEnvelope unmarshals a recorded response body into a typed envelope.
func decodeEnvelope[T any](t *testing.T, w *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

// registerAndLogin registers a regular account over HTTP and returns
// its access token plus the created user.
func (ts *testServer) registerAndLogin(t *testing.T, email string) (string, *domain.User) {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	return ts.login(t, email), decodeEnvelope[*domain.User](t, resp).Data
}

// login logs an existing account in and returns its access token.
func (ts *testServer) login(t *testing.T, email string) string {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[service.AuthResponse](t, resp)
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

// createSuperuser seeds a superuser directly in the store and returns
// an access token for it.
func (ts *testServer) createSuperuser(t *testing.T, email string) (string, *domain.User) {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		Superuser:    true,
	}
	user.InitTimestamps()
	require.NoError(t, ts.store.CreateUser(context.Background(), user))

	return ts.login(t, email), user
}

// itoa renders an ID for use in a URL path.
func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[map[string]string](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, "ok", envelope.Data["status"])
}

func TestServer_JSONResponse(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, "application/json; charset=utf-8", resp.Header().Get("Content-Type"))
}

func TestServer_UnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.do(t, http.MethodGet, "/api/v1/nonexistent", "", nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}
