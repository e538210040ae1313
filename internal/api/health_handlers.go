package api

import (
	"net/http"

	"github.com/inkwellapp/inkwell-server/internal/http/response"
)

// handleHealthCheck reports server liveness.
// GET /health
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}
