// Package api provides the HTTP REST API for the Online School service.
//
// It exposes the login/register/me authentication endpoints and a
// permission-guarded records surface. The server follows the usual
// lifecycle pattern:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: all methods are safe for concurrent use.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bogdandanielioan/online-school-api/internal/audit"
	"github.com/bogdandanielioan/online-school-api/internal/auth"
	"github.com/bogdandanielioan/online-school-api/internal/infrastructure/config"
	"github.com/bogdandanielioan/online-school-api/internal/infrastructure/logging"
	"github.com/bogdandanielioan/online-school-api/internal/records"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config        config.APIConfig
	Logger        *logging.Logger
	Authenticator *auth.Authenticator
	Issuer        *auth.Issuer
	Identities    *auth.IdentityStore
	Courses       records.CourseRepository
	Audit         audit.Repository
	Version       string
}

// Server is the HTTP API server.
type Server struct {
	cfg           config.APIConfig
	logger        *logging.Logger
	authenticator *auth.Authenticator
	issuer        *auth.Issuer
	identities    *auth.IdentityStore
	courses       records.CourseRepository
	audit         audit.Repository
	version       string
	server        *http.Server
}

// New creates a new API server. The server is not started until Start()
// is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Authenticator == nil {
		return nil, fmt.Errorf("authenticator is required")
	}
	if deps.Issuer == nil {
		return nil, fmt.Errorf("token issuer is required")
	}

	return &Server{
		cfg:           deps.Config,
		logger:        deps.Logger,
		authenticator: deps.Authenticator,
		issuer:        deps.Issuer,
		identities:    deps.Identities,
		courses:       deps.Courses,
		audit:         deps.Audit,
		version:       deps.Version,
	}, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server, waiting up to 10 seconds
// for in-flight requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
