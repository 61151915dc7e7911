// ABOUTME: Gateway server wiring: routes, CORS, JSON helpers, graceful shutdown
// ABOUTME: Mounts the MCP surface at /mcp/ and token management at /tokens

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/slugline-app/slugline-gateway/internal/auth"
	"github.com/slugline-app/slugline-gateway/internal/dispatch"
	"github.com/slugline-app/slugline-gateway/internal/manifest"
	"github.com/slugline-app/slugline-gateway/internal/registry"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Server is the gateway HTTP server.
type Server struct {
	addr       string
	logger     *slog.Logger
	registry   *registry.Registry
	dispatcher *dispatch.Dispatcher
	manifests  *manifest.Generator
	authority  *auth.Authority
	sessions   auth.SessionVerifier
	tokenSvc   *auth.TokenService

	// requireManifestAuth rejects unauthenticated manifest/status requests.
	// Off by default: the catalogue is intentionally discoverable so AI
	// assistants can learn the available operations before holding a token.
	requireManifestAuth bool
}

// Config contains configuration options for the Server.
type Config struct {
	Addr                string
	Logger              *slog.Logger
	Registry            *registry.Registry
	Dispatcher          *dispatch.Dispatcher
	Manifests           *manifest.Generator
	Authority           *auth.Authority
	Sessions            auth.SessionVerifier
	TokenService        *auth.TokenService
	RequireManifestAuth bool
}

// New creates a gateway server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if cfg.Manifests == nil {
		return nil, errors.New("manifest generator is required")
	}
	if cfg.Authority == nil {
		return nil, errors.New("authority is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		addr:                cfg.Addr,
		logger:              logger,
		registry:            cfg.Registry,
		dispatcher:          cfg.Dispatcher,
		manifests:           cfg.Manifests,
		authority:           cfg.Authority,
		sessions:            cfg.Sessions,
		tokenSvc:            cfg.TokenService,
		requireManifestAuth: cfg.RequireManifestAuth,
	}, nil
}

// RegisterRoutes registers all gateway endpoints on the given ServeMux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/mcp", s.handleMCP)
	mux.HandleFunc("/mcp/", s.handleMCP)
	if s.tokenSvc != nil && s.sessions != nil {
		mux.HandleFunc("/tokens", s.handleTokens)
		mux.HandleFunc("/tokens/", s.handleTokens)
	}
	mux.HandleFunc("/health", s.handleHealth)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// setCORSHeaders applies the permissive CORS policy every response carries.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
}

// writeJSON serializes body as UTF-8 JSON with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

// writeError serializes a short {error} body with the given status.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
