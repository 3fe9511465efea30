package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	v1 "github.com/gosuda/emotebot/internal/api/v1"
	"github.com/gosuda/emotebot/internal/config"
	emoteslack "github.com/gosuda/emotebot/internal/messenger/slack"
	"github.com/gosuda/emotebot/internal/server/middleware"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the components served over HTTP.
type Deps struct {
	Store   v1.DataStore
	Catalog v1.EmoteCatalog
	Slack   *emoteslack.Handler // nil when Slack is not configured
	Checks  map[string]HealthCheck
	Logger  zerolog.Logger
}

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	slack      *emoteslack.Handler
	checks     map[string]HealthCheck
	logger     zerolog.Logger
}

// New creates a Server with all routes wired. ctx bounds the background
// cleanup of rate limiters.
func New(ctx context.Context, cfg *config.Config, deps Deps) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(chimw.Recoverer)

	s := &Server{
		router: router,
		slack:  deps.Slack,
		checks: deps.Checks,
		logger: deps.Logger,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Read-only API for dashboards.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}).Handler)
		r.Use(middleware.RateLimitByIP(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst))

		apiConfig := huma.DefaultConfig("Emotebot API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, deps.Store, deps.Catalog)
	})

	// Slack webhook routes: real handler if configured, 501 placeholder otherwise.
	router.Route("/slack", func(r chi.Router) {
		if deps.Slack == nil {
			r.Post("/*", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotImplemented)
			})
			return
		}

		r.Use(middleware.SlackWorkspace())
		r.Use(middleware.RateLimit(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		registerSlackRoutes(r, deps.Slack)
	})

	router.Get("/healthz", s.handleHealth)

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body[name] = "unavailable"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, then waits for running
// commands to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	if s.slack == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.slack.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("server.Shutdown: waiting for commands: %w", ctx.Err())
	}
}
