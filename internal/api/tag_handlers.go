package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// handleCreateTag creates a tag. Superuser only.
// POST /api/v1/tags
func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTagRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	tag, err := s.tagService.Create(r.Context(), principalFrom(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, tag, s.logger)
}

// handleListTags returns one window of tags.
// GET /api/v1/tags
func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
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

	page, err := s.tagService.List(r.Context(), principalFrom(r.Context()), window, includeDeleted)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetTag returns one tag.
// GET /api/v1/tags/{id}
func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
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

	tag, err := s.tagService.Get(r.Context(), principalFrom(r.Context()), id, includeDeleted)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tag, s.logger)
}

// handleUpdateTag renames a tag. Superuser only.
// PATCH /api/v1/tags/{id}
func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req service.UpdateTagRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	tag, err := s.tagService.Update(r.Context(), principalFrom(r.Context()), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, tag, s.logger)
}

// handleDeleteTag soft-deletes a tag. Superuser only.
// DELETE /api/v1/tags/{id}
func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.tagService.Delete(r.Context(), principalFrom(r.Context()), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
