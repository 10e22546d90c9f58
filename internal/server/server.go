package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/riohdigital/digirioh-buddy-portal/internal/app"
	"github.com/riohdigital/digirioh-buddy-portal/internal/config"
)

type tokenService interface {
	CaptureTokens(ctx context.Context, req app.CaptureRequest) error
	ExchangeCode(ctx context.Context, userID uuid.UUID, code, redirectURI string) error
	FreshAccessToken(ctx context.Context, userID uuid.UUID) (*app.AccessToken, error)
}

// HealthCheck is a named health check function.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	tokens       tokenService
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, tokens tokenService, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		tokens:       tokens,
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
