package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyPrincipal contextKey = "principal"

// requireAuth is middleware that validates access tokens and attaches
// the authenticated principal. Verification and the active gate both
// happen here: a valid token for a switched-off account gets past
// neither.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		// Parse Bearer token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		user, err := s.authService.VerifyAccessToken(r.Context(), parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		if err := s.authService.RequireActive(user); err != nil {
			response.HandleError(w, err, s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyPrincipal, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSuperuser is middleware that ensures the authenticated
// principal holds superuser privilege. Must be used after requireAuth.
func (s *Server) requireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := principalFrom(r.Context())
		if principal == nil {
			response.Unauthorized(w, "Authentication required", s.logger)
			return
		}

		if err := s.authService.RequireSuperuser(principal); err != nil {
			response.HandleError(w, err, s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// principalFrom extracts the authenticated user from request context.
// Returns nil if not authenticated.
func principalFrom(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(contextKeyPrincipal).(*domain.User); ok {
		return user
	}
	return nil
}
