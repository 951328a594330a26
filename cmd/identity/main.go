package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sonalikodikara/cloudretail/internal/config"
	"github.com/sonalikodikara/cloudretail/internal/identity"
	"github.com/sonalikodikara/cloudretail/internal/logging"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

func main() {
	cfg, err := config.LoadIdentity()
	if err != nil {
		fmt.Fprintln(os.Stderr, "identity:", err)
		os.Exit(1)
	}

	logger := logging.MustNewLogger("identity", cfg.Env)
	defer func() { _ = logger.Sync() }()

	store := identity.NewStore()
	if err := store.Seed(context.Background()); err != nil {
		logger.Fatal("seeding users failed", zap.Error(err))
	}

	tokens := identity.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	handler := identity.NewHandler(store, tokens, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           middleware.Tracing(logger)(handler.Router()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("identity service listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, logger)
}

func waitForShutdown(srv *http.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
