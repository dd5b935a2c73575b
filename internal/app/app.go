// Package app wires configuration, storage, services, and the HTTP
// server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/voe-labs/ideahub-backend/internal/adapter/postgres"
	auditrepo "github.com/voe-labs/ideahub-backend/internal/adapter/postgres/audit"
	categoryrepo "github.com/voe-labs/ideahub-backend/internal/adapter/postgres/category"
	departmentrepo "github.com/voe-labs/ideahub-backend/internal/adapter/postgres/department"
	historyrepo "github.com/voe-labs/ideahub-backend/internal/adapter/postgres/history"
	idearepo "github.com/voe-labs/ideahub-backend/internal/adapter/postgres/idea"
	statsrepo "github.com/voe-labs/ideahub-backend/internal/adapter/postgres/stats"
	voterepo "github.com/voe-labs/ideahub-backend/internal/adapter/postgres/vote"
	"github.com/voe-labs/ideahub-backend/internal/auth"
	"github.com/voe-labs/ideahub-backend/internal/config"
	"github.com/voe-labs/ideahub-backend/internal/service/dashboard"
	"github.com/voe-labs/ideahub-backend/internal/service/directory"
	"github.com/voe-labs/ideahub-backend/internal/service/idea"
	"github.com/voe-labs/ideahub-backend/internal/transport/middleware"
	"github.com/voe-labs/ideahub-backend/internal/transport/rest"
)

// Run starts the application and blocks until SIGINT/SIGTERM, then shuts
// down gracefully within ShutdownTimeout.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := NewLogger(cfg.Log)
	log.InfoContext(ctx, "starting",
		slog.String("version", BuildVersion()),
		slog.String("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	categories := categoryrepo.New(pool)

	ideaService := idea.NewService(
		log,
		idearepo.New(pool),
		voterepo.New(pool),
		historyrepo.New(pool),
		categories,
		auditrepo.New(pool),
		txManager,
		cfg.Ideas,
	)
	dashboardService := dashboard.NewService(log, statsrepo.New(pool))
	directoryService := directory.NewService(log, categories, departmentrepo.New(pool))

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Logger:    log,
		Ideas:     ideaService,
		Dashboard: dashboardService,
		Directory: directoryService,
		Health:    rest.NewHealthHandler(pool, Version),
		Auth:      middleware.Auth(verifier),
		CORS:      cfg.CORS,
		Limits:    cfg.Limits,
		Limiter:   limiter,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("stopped")
	return nil
}
