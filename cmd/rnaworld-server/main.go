package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := loadServerConfig()
	logger := NewLogger(cfg.LogLevel)

	srv := NewServer(logger)
	srv.SetTickInterval(cfg.TickInterval)
	srv.SetNotifyEveryTicks(cfg.NotifyEveryTicks)

	env, err := bootstrapEnvironment(srv, cfg)
	if err != nil {
		logger.Fatalf("Failed to create environment %s: %v", cfg.DefaultEnvID, err)
	}
	logger.Infof("Default environment ready: env_id=%s running=%t speed=%g params_file=%q",
		env.ID(), env.IsRunning(), env.Speed(), cfg.ParamsFile)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("rnaworld-server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP shutdown failed: %v", err)
	}
	if err := srv.Close(); err != nil {
		logger.Errorf("Closing server: %v", err)
	}
}
