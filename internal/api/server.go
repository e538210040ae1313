// Package api provides the HTTP API server and handlers for the Inkwell application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService    *service.AuthService
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	tagService     *service.TagService
	router         *chi.Mux
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	userService *service.UserService,
	postService *service.PostService,
	commentService *service.CommentService,
	tagService *service.TagService,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:    authService,
		userService:    userService,
		postService:    postService,
		commentService: commentService,
		tagService:     tagService,
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.handleGetCurrentUser)
			})
		})

		// User administration (superuser only).
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Use(s.requireSuperuser)
			r.Post("/", s.handleCreateUser)
			r.Get("/", s.handleListUsers)
			r.Get("/{id}", s.handleGetUser)
			r.Patch("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})

		// Posts.
		r.Route("/posts", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreatePost)
			r.Get("/", s.handleListPosts)
			r.Get("/{id}", s.handleGetPost)
			r.Patch("/{id}", s.handleUpdatePost)
			r.Delete("/{id}", s.handleDeletePost)

			// Tag membership lives under the post it belongs to.
			r.Post("/{id}/tags/{tagID}", s.handleAttachTag)
			r.Delete("/{id}/tags/{tagID}", s.handleDetachTag)
		})

		// Comments.
		r.Route("/comments", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateComment)
			r.Get("/", s.handleListComments)
			r.Get("/{id}", s.handleGetComment)
			r.Patch("/{id}", s.handleUpdateComment)
			r.Delete("/{id}", s.handleDeleteComment)
		})

		// Tags.
		r.Route("/tags", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateTag)
			r.Get("/", s.handleListTags)
			r.Get("/{id}", s.handleGetTag)
			r.Patch("/{id}", s.handleUpdateTag)
			r.Delete("/{id}", s.handleDeleteTag)
		})
	})
}
