package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/riohdigital/digirioh-buddy-portal/internal/app"
	"github.com/riohdigital/digirioh-buddy-portal/internal/config"
	"github.com/riohdigital/digirioh-buddy-portal/internal/crypto"
	"github.com/riohdigital/digirioh-buddy-portal/internal/database"
	"github.com/riohdigital/digirioh-buddy-portal/internal/google"
	"github.com/riohdigital/digirioh-buddy-portal/internal/logging"
	"github.com/riohdigital/digirioh-buddy-portal/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupCrypto(cfg *config.Config) crypto.Service {
	if cfg.TokenEncryptionSecret == "" {
		slog.Warn("Token encryption disabled, refresh tokens stored in plaintext")
		return crypto.NoopService{}
	}

	svc, err := crypto.NewAesGcmService(cfg.TokenEncryptionSecret)
	if err != nil {
		slog.Error("Failed to create crypto service", "error", err)
		os.Exit(1)
	}
	return svc
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	cryptoSvc := setupCrypto(cfg)
	credentialRepo := database.NewCredentialRepo(pool)
	googleClient := google.NewClient(cfg.GoogleClientID, cfg.GoogleClientSecret)
	clock := clockwork.NewRealClock()

	tokenSvc := app.NewTokenService(credentialRepo, googleClient, cryptoSvc, clock)

	healthChecks := []server.HealthCheck{
		{Name: "database", Check: pool.Ping},
	}

	srv := server.NewServer(cfg, tokenSvc, healthChecks)

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
