package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// handleCreateComment adds a comment to a post.
// POST /api/v1/comments
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCommentRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	comment, err := s.commentService.Create(r.Context(), principalFrom(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, comment, s.logger)
}

// handleListComments returns one window of comments, optionally scoped
// to a single post via the post_id query parameter.
// GET /api/v1/comments
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
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

	var postID int64
	if raw := r.URL.Query().Get("post_id"); raw != "" {
		postID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || postID <= 0 {
			response.HandleError(w, domainerrors.InvalidArgument("post_id must be a positive integer"), s.logger)
			return
		}
	}

	page, err := s.commentService.List(r.Context(), principalFrom(r.Context()), window, postID, includeDeleted)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetComment returns one comment.
// GET /api/v1/comments/{id}
func (s *Server) handleGetComment(w http.ResponseWriter, r *http.Request) {
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

	comment, err := s.commentService.Get(r.Context(), principalFrom(r.Context()), id, includeDeleted)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, comment, s.logger)
}

// handleUpdateComment edits a comment's content.
// PATCH /api/v1/comments/{id}
func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req service.UpdateCommentRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	comment, err := s.commentService.Update(r.Context(), principalFrom(r.Context()), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, comment, s.logger)
}

// handleDeleteComment soft-deletes a comment.
// DELETE /api/v1/comments/{id}
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.commentService.Delete(r.Context(), principalFrom(r.Context()), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
