// Package http exposes the auth service as a JSON API over fiber. Sessions
// travel in an HTTP-only cookie.
package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Santos2175/auth-app/internal/logging"
	"github.com/Santos2175/auth-app/internal/server/auth"
	"github.com/Santos2175/auth-app/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// HTTPServer serves the /api/auth routes.
type HTTPServer struct {
	address       string
	logger        logging.Logger
	auth          *services.AuthService
	guard         *auth.Guard
	clientURL     string
	secureCookies bool
	sessionTTL    time.Duration
	app           *fiber.App
}

// NewHTTPServer builds the server and its routes. secureCookies should be
// true in production.
func NewHTTPServer(address string, l logging.Logger, as *services.AuthService, guard *auth.Guard,
	clientURL string, secureCookies bool, sessionTTL time.Duration) *HTTPServer {
	s := &HTTPServer{
		address:       address,
		logger:        l.With("module", "http_server"),
		auth:          as,
		guard:         guard,
		clientURL:     strings.TrimRight(clientURL, "/"),
		secureCookies: secureCookies,
		sessionTTL:    sessionTTL,
	}
	s.app = s.newApp()
	return s
}

func (s *HTTPServer) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "auth-app",
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	app.Use(recover.New())
	app.Use(s.requestLogger)
	if s.clientURL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     s.clientURL,
			AllowMethods:     "GET,POST,PUT,DELETE",
			AllowHeaders:     "Content-Type",
			AllowCredentials: true,
		}))
	}

	app.Get("/healthz", s.health)

	api := app.Group("/api/auth")
	api.Post("/signup", s.signup)
	api.Post("/register", s.signup)
	api.Post("/login", s.login)
	api.Post("/logout", s.logout)
	api.Post("/verify-email", s.verifyEmail)
	api.Post("/forgot-password", s.forgotPassword)
	api.Post("/reset-password/:token", s.resetPassword)
	api.Get("/me", s.requireSession, s.checkAuth)
	api.Post("/me", s.requireSession, s.checkAuth)

	app.Use(s.notFound)

	return app
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return s.app.Listen(s.address)
}
