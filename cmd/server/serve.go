// cmd/server/serve.go

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"autoshop/internal/config"
	"autoshop/internal/observability"
	"autoshop/internal/registry"
	"autoshop/internal/server"
)

// runServe 載入設定、組裝模組並執行 HTTP 伺服器，直到收到 SIGINT/SIGTERM。
func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	var metrics *observability.Metrics
	regOpts := []registry.Option{registry.WithLogger(logger)}
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
		regOpts = append(regOpts, registry.WithObserver(metrics))
	}

	exporter := "none"
	if cfg.Tracing.Enabled {
		exporter = cfg.Tracing.Exporter
	}
	shutdownTracer, err := observability.InitTracer(exporter, os.Stderr)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	s := server.NewServer(registry.NewRegistry(regOpts...), server.Options{
		Logger:    logger,
		Metrics:   metrics,
		RateLimit: cfg.HTTP.RateLimit,
		RateBurst: cfg.HTTP.RateBurst,
		Tracing:   cfg.Tracing.Enabled,
	})
	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: s.Router()}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("autoshop server running", "addr", cfg.HTTP.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.HTTP.ShutdownTimeout.String())
		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
