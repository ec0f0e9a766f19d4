// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It is the composition root for the chi router.
  - Only this package and cmd/api construct net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/avpech/yamdb-final/internal/core/review"
	"github.com/avpech/yamdb-final/internal/core/taxonomy"
	"github.com/avpech/yamdb-final/internal/core/title"
	"github.com/avpech/yamdb-final/internal/platform/constants"
	"github.com/avpech/yamdb-final/internal/platform/middleware"
	"github.com/avpech/yamdb-final/internal/users/account"
	"github.com/avpech/yamdb-final/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It answers 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It answers 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles signup and token exchange.
	Auth *auth.Handler

	// Account handles /users/me and admin user management.
	Account *account.Handler

	// Categories and Genres serve the two taxonomies.
	Categories *taxonomy.Handler
	Genres     *taxonomy.Handler

	// Title serves the catalog; Review is mounted beneath it.
	Title  *title.Handler
	Review *review.Handler
}

// Dependencies are the non-handler collaborators of the middleware chain.
type Dependencies struct {
	Config   middleware.AppConfig
	Port     string
	Verifier middleware.TokenVerifier
	Resolver middleware.IdentityResolver
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// context bounds background work started by middleware (rate limiter sweeps).
func NewServer(context context.Context, log *slog.Logger, deps Dependencies, handlers Handlers) *Server {
	router := NewRouter(context, log, deps, handlers)

	return &Server{
		router: router,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + deps.Port,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree without binding a listener.
func NewRouter(context context.Context, log *slog.Logger, deps Dependencies, handlers Handlers) *chi.Mux {
	router := chi.NewRouter()

	// # Middleware Chain
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(log))
	router.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	router.Use(middleware.RateLimit(context, middleware.DefaultRateLimit))
	router.Use(middleware.PanicRecovery(log))
	router.Use(middleware.CORS(deps.Config))
	router.Use(chimw.StripSlashes)
	router.Use(middleware.Authenticate(deps.Verifier, deps.Resolver))

	// # Infrastructure Endpoints
	router.Get("/health", handlers.Liveness)
	router.Get("/ready", handlers.Readiness)

	// # Application API
	router.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", handlers.Auth.Routes())
		api.Mount("/users", handlers.Account.Routes())
		api.Mount("/categories", handlers.Categories.Routes())
		api.Mount("/genres", handlers.Genres.Routes())
		api.Mount("/titles", handlers.Title.Routes(func(titleRouter chi.Router) {
			titleRouter.Mount("/reviews", handlers.Review.Routes())
		}))
	})

	return router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
