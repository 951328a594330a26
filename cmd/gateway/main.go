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
	"github.com/sonalikodikara/cloudretail/internal/gateway"
	"github.com/sonalikodikara/cloudretail/internal/logging"
	"github.com/sonalikodikara/cloudretail/internal/metrics"
)

func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gateway:", err)
		os.Exit(1)
	}

	logger := logging.MustNewLogger("gateway", cfg.Env)
	defer func() { _ = logger.Sync() }()

	rules, err := gateway.RulesFor(cfg)
	if err != nil {
		logger.Fatal("loading route table failed", zap.Error(err))
	}
	table := gateway.NewTable(rules)

	handler := gateway.NewHandler(cfg, table, metrics.New("gateway"), logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("gateway listening",
			zap.Int("port", cfg.Port),
			zap.Int("routes", len(rules)),
		)
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
