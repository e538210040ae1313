package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// handleRegister creates a new account.
// POST /api/v1/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	user, err := s.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, user, s.logger)
}

// handleLogin authenticates a user and issues an access token.
// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	req.ClientKey = clientKey(r)

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resp, s.logger)
}

// handleGetCurrentUser returns the authenticated principal.
// GET /api/v1/auth/me
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	response.Success(w, principalFrom(r.Context()), s.logger)
}
