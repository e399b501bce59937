// Package api provides the HTTP API server and handlers for the Shelfmark application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfmark/shelfmark-server/internal/http/response"
	"github.com/shelfmark/shelfmark-server/internal/ratelimit"
	"github.com/shelfmark/shelfmark-server/internal/service"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService    *service.AuthService
	libraryService *service.LibraryService
	statsService   *service.StatsService
	socialService  *service.SocialService
	profileService *service.ProfileService
	searchService  *service.SearchService
	validator      *validation.Validator
	corsOrigins    []string
	router         *chi.Mux
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(authService *service.AuthService, libraryService *service.LibraryService, statsService *service.StatsService, socialService *service.SocialService, profileService *service.ProfileService, searchService *service.SearchService, corsOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		authService:    authService,
		libraryService: libraryService,
		statsService:   statsService,
		socialService:  socialService,
		profileService: profileService,
		searchService:  searchService,
		validator:      validation.New(),
		corsOrigins:    corsOrigins,
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

	origins := s.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	// Unauthenticated endpoints get an IP throttle.
	signinLimiter := ratelimit.New(signinRatePerSecond, signinBurst)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.With(s.rateLimitByIP(signinLimiter)).Post("/auth/signin", s.handleSignIn)

		// Avatars are public so profile images render without a token.
		r.Get("/users/{id}/avatar", s.handleGetAvatar)

		// Catalog search.
		r.Route("/search", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleSearch)
		})

		// Personal library.
		r.Route("/library", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListLibrary)
			r.Post("/", s.handleAddToLibrary)
			r.Get("/{bookID}", s.handleGetLibraryBook)
			r.Get("/{bookID}/membership", s.handleGetMembership)
			r.Patch("/{bookID}", s.handleUpdateLibraryBook)
			r.Patch("/{bookID}/progress", s.handleUpdateProgress)
			r.Delete("/{bookID}", s.handleRemoveFromLibrary)
			r.Post("/update-status", s.handleUpdateStatus)
			r.Post("/update-rating", s.handleUpdateRating)
		})

		// Accounts, profiles, and the social graph.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Patch("/me", s.handleUpdateProfile)
			r.Put("/me/avatar", s.handleSetAvatar)
			r.Post("/me/avatar", s.handleSetAvatar)
			r.Get("/me/stats", s.handleGetOwnStats)
			r.Get("/check-name", s.handleCheckName)
			r.Get("/{id}/profile", s.handleGetProfile)
			r.Get("/{id}/stats", s.handleGetStats)
			r.Post("/{id}/follow", s.handleToggleFollow)
			r.Get("/{id}/followers", s.handleListFollowers)
			r.Get("/{id}/following", s.handleListFollowing)
		})

		// Notifications.
		r.Route("/notifications", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListNotifications)
			r.Post("/read-all", s.handleMarkAllNotificationsRead)
			r.Post("/{id}/read", s.handleMarkNotificationRead)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
