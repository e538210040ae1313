package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// handleCreateUser creates an account with arbitrary flags.
// POST /api/v1/users
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	user, err := s.userService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, user, s.logger)
}

// handleListUsers returns one window of accounts.
// GET /api/v1/users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
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

	page, err := s.userService.List(r.Context(), window, includeDeleted)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleGetUser returns one account.
// GET /api/v1/users/{id}
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
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

	user, err := s.userService.Get(r.Context(), id, includeDeleted)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleUpdateUser applies a partial account update.
// PATCH /api/v1/users/{id}
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req service.UpdateUserRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	user, err := s.userService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleDeleteUser soft-deletes an account.
// DELETE /api/v1/users/{id}
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.userService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
