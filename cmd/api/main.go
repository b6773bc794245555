package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/keypad"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/session"
)

func main() {

	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.Log); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing, metrics and OTLP logs
	shutdown, err := initTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		observability.Logger.Fatal("telemetry init failed", zap.Error(err))
	}
	defer shutdown(ctx)

	// Sessions
	store := session.NewStore(session.Config{
		TTL:         cfg.Sessions.TTL.Duration,
		MaxSessions: cfg.Sessions.MaxSessions,
	})
	prometheus.MustRegister(store.Collector())

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go store.Run(janitorCtx, cfg.Sessions.SweepInterval.Duration, func(removed int) {
		observability.Logger.Info("expired calculator sessions removed", zap.Int("removed", removed))
	})

	// Router
	router := server.NewRouter(keypad.NewHandler(store), observability.PrometheusHandler())

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	go func() {
		observability.Logger.Info("server started", zap.String("addr", cfg.Server.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv, cfg.Server.ShutdownTimeout.Duration)
}
