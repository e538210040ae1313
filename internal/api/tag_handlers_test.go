package api

import (
	"net/http"
	"testing"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTag creates a tag over HTTP using a superuser token.
func (ts *testServer) createTag(t *testing.T, superToken, name string) *domain.Tag {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/api/v1/tags", superToken, map[string]any{
		"name": name,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	return decodeEnvelope[*domain.Tag](t, resp).Data
}

func TestCreateTag_Superuser(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")

	resp := ts.do(t, http.MethodPost, "/api/v1/tags", superToken, map[string]any{
		"name": "golang",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)

	envelope := decodeEnvelope[*domain.Tag](t, resp)
	assert.Equal(t, "golang", envelope.Data.Name)
}

func TestCreateTag_RegularUser(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerAndLogin(t, "writer@example.com")

	resp := ts.do(t, http.MethodPost, "/api/v1/tags", token, map[string]any{
		"name": "golang",
	})

	assert.Equal(t, http.StatusForbidden, resp.Code)

	envelope := decodeEnvelope[any](t, resp)
	assert.Equal(t, "INSUFFICIENT_PRIVILEGE", envelope.Error.Code)
}

func TestCreateTag_DuplicateName(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")
	ts.createTag(t, superToken, "golang")

	resp := ts.do(t, http.MethodPost, "/api/v1/tags", superToken, map[string]any{
		"name": "golang",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)

	// A different spelling of the same slug is the same tag.
	resp = ts.do(t, http.MethodPost, "/api/v1/tags", superToken, map[string]any{
		"name": "GoLang",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	envelope := decodeEnvelope[any](t, resp)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestListTags_RegularUser(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")
	ts.createTag(t, superToken, "golang")
	ts.createTag(t, superToken, "testing")

	token, _ := ts.registerAndLogin(t, "writer@example.com")
	resp := ts.do(t, http.MethodGet, "/api/v1/tags", token, nil)

	assert.Equal(t, http.StatusOK, resp.Code)

	type page struct {
		Total int           `json:"total"`
		Items []*domain.Tag `json:"items"`
	}
	envelope := decodeEnvelope[page](t, resp)
	assert.Equal(t, 2, envelope.Data.Total)
	assert.Len(t, envelope.Data.Items, 2)
}

func TestUpdateTag_Superuser(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")
	tag := ts.createTag(t, superToken, "golnag")

	resp := ts.do(t, http.MethodPatch, "/api/v1/tags/"+itoa(tag.ID), superToken, map[string]any{
		"name": "golang",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[*domain.Tag](t, resp)
	assert.Equal(t, "golang", envelope.Data.Name)
}

func TestDeleteTag_RegularUser(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")
	tag := ts.createTag(t, superToken, "golang")

	token, _ := ts.registerAndLogin(t, "writer@example.com")
	resp := ts.do(t, http.MethodDelete, "/api/v1/tags/"+itoa(tag.ID), token, nil)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestAttachTag_PostOwner(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")
	tag := ts.createTag(t, superToken, "golang")

	token, _ := ts.registerAndLogin(t, "writer@example.com")
	post := ts.createPost(t, token, "Post")

	resp := ts.do(t, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/tags/"+itoa(tag.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	// The tag shows up on the post.
	resp = ts.do(t, http.MethodGet, "/api/v1/posts/"+itoa(post.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[*domain.Post](t, resp)
	require.Len(t, envelope.Data.Tags, 1)
	assert.Equal(t, "golang", envelope.Data.Tags[0].Name)
}

func TestAttachTag_NotPostOwner(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")
	tag := ts.createTag(t, superToken, "golang")

	ownerToken, _ := ts.registerAndLogin(t, "writer@example.com")
	post := ts.createPost(t, ownerToken, "Post")

	otherToken, _ := ts.registerAndLogin(t, "other@example.com")
	resp := ts.do(t, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/tags/"+itoa(tag.ID), otherToken, nil)

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestAttachTag_MissingTag(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerAndLogin(t, "writer@example.com")
	post := ts.createPost(t, token, "Post")

	resp := ts.do(t, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/tags/9999", token, nil)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDetachTag(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")
	tag := ts.createTag(t, superToken, "golang")

	token, _ := ts.registerAndLogin(t, "writer@example.com")
	post := ts.createPost(t, token, "Post")

	resp := ts.do(t, http.MethodPost, "/api/v1/posts/"+itoa(post.ID)+"/tags/"+itoa(tag.ID), token, nil)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.do(t, http.MethodDelete, "/api/v1/posts/"+itoa(post.ID)+"/tags/"+itoa(tag.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.do(t, http.MethodGet, "/api/v1/posts/"+itoa(post.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[*domain.Post](t, resp)
	assert.Empty(t, envelope.Data.Tags)
}

func TestDetachTag_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	superToken, _ := ts.createSuperuser(t, "root@example.com")
	tag := ts.createTag(t, superToken, "golang")

	token, _ := ts.registerAndLogin(t, "writer@example.com")
	post := ts.createPost(t, token, "Post")

	// Detaching an absent link still succeeds.
	resp := ts.do(t, http.MethodDelete, "/api/v1/posts/"+itoa(post.ID)+"/tags/"+itoa(tag.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
}
