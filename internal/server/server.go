// Package server runs the HTTP surface with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/yasithJay/online-bookstore-final-assessment/config"
	"github.com/yasithJay/online-bookstore-final-assessment/internal/bootstrap"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/logger"
	"github.com/yasithJay/online-bookstore-final-assessment/pkg/migration"
)

// Start boots the app, applies pending migrations, launches the queue
// workers and serves HTTP until SIGINT/SIGTERM, then drains in-flight
// requests and jobs.
func Start() error {
	app, err := bootstrap.New()
	if err != nil {
		return err
	}

	if err := migration.New(app.DB).Run(); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Queue.StartWorkers(ctx, config.QueueWorkers())

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           app.Router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	app.Queue.Wait()
	return nil
}
