package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// handleCreatePost creates a post owned by the caller.
// POST /api/v1/posts
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePostRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	post, err := s.postService.Create(r.Context(), principalFrom(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, post, s.logger)
}

// handleListPosts returns one window of posts.
// GET /api/v1/posts
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	includeDeleted, err := parseIncludeDeleted(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	page, err := s.postService.List(r.Context(), principalFrom(r.Context()), window, includeDeleted)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetPost returns one post with relations.
// GET /api/v1/posts/{id}
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	includeDeleted, err := parseIncludeDeleted(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	post, err := s.postService.Get(r.Context(), principalFrom(r.Context()), id, includeDeleted)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, post, s.logger)
}

// handleUpdatePost edits a post's title or content.
// PATCH /api/v1/posts/{id}
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req service.UpdatePostRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	post, err := s.postService.Update(r.Context(), principalFrom(r.Context()), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, post, s.logger)
}

// handleDeletePost soft-deletes a post.
// DELETE /api/v1/posts/{id}
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.postService.Delete(r.Context(), principalFrom(r.Context()), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleAttachTag links a tag to a post.
// POST /api/v1/posts/{id}/tags/{tagID}
func (s *Server) handleAttachTag(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	tagID, err := parseID(r, "tagID")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.tagService.Attach(r.Context(), principalFrom(r.Context()), postID, tagID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleDetachTag unlinks a tag from a post.
// DELETE /api/v1/posts/{id}/tags/{tagID}
func (s *Server) handleDetachTag(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	tagID, err := parseID(r, "tagID")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.tagService.Detach(r.Context(), principalFrom(r.Context()), postID, tagID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
