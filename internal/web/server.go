// Package web provides the mock user creation server.
//
// It answers POST /api/create_user the way the real creation endpoint does,
// so imports can be exercised end to end without a live user service.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/JonMunkholm/userimport/internal/config"
	mw "github.com/JonMunkholm/userimport/internal/web/middleware"
)

// Server is the HTTP server for the mock creation endpoint.
type Server struct {
	store  UserStore
	cfg    config.ServerConfig
	log    *zap.Logger
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new Server instance. A nil store keeps users in memory.
func NewServer(store UserStore, cfg config.ServerConfig, log *zap.Logger) *Server {
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		store:  store,
		cfg:    cfg,
		log:    log,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.Logger(s.log))
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/create_user", s.handleCreateUser)
	})

	// The real endpoint only knows one route; everything else is a JSON 404.
	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleNotFound)
}

// Start begins listening for HTTP requests on the configured address.
// It returns nil after a graceful Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown. If Shutdown already ran,
// ln is closed and Serve returns nil at once.
func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("server listening", zap.String("addr", ln.Addr().String()))
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server. It is safe to call before Start.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
