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

	"horizonx-gauge/internal/config"
	"horizonx-gauge/internal/core"
	"horizonx-gauge/internal/core/auth"
	"horizonx-gauge/internal/core/gauge"
	"horizonx-gauge/internal/core/instance"
	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"
	"horizonx-gauge/internal/render"
	"horizonx-gauge/internal/source"
	"horizonx-gauge/internal/storage/snapshot"
	"horizonx-gauge/internal/storage/sqlite"
	"horizonx-gauge/internal/transport/rest"
	"horizonx-gauge/internal/transport/websocket"

	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.Mode == config.ModeSnapshot {
		if err := runSnapshot(ctx, cfg, log); err != nil {
			log.Error("snapshot failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if cfg.JWTSecret == "" {
		log.Error("config", "error", "JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := sqlite.NewSqliteDB(cfg.DBPath, log)
	if err != nil {
		log.Error("sqlite", "connect", err)
		return
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("sqlite", "close", err)
		}
	}()

	userRepo := sqlite.NewUserRepository(db)
	instanceRepo := sqlite.NewInstanceRepository(db)

	sources := source.NewSelector(
		source.NewHTTPSource(cfg.MetricsTimeout, cfg.MetricsAPIToken, log),
		source.NewLocalSource(log),
	)
	gaugeService := gauge.NewService(sources, gauge.Options{}, cfg.GaugeIdleTTL, cfg.GaugeMaxConcurrency, log)
	instanceService := instance.NewService(instanceRepo, gaugeService)
	authService := auth.NewService(userRepo, cfg)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("auth", "seed admin", err)
		return
	}

	gs := snapshot.NewGaugeStore()
	hub := websocket.NewHub(ctx, log)

	sched := core.NewScheduler(cfg.GaugeRefreshInterval, log,
		func(ctx context.Context) ([]domain.GaugeReading, error) {
			instances, err := instanceService.All(ctx)
			if err != nil {
				return nil, err
			}
			return gaugeService.RefreshAll(ctx, instances)
		},
		func(readings []domain.GaugeReading) {
			gs.Set(readings)
			hub.PublishReadings(readings)
		},
	)
	sched.SetTimeout(cfg.MetricsTimeout)
	go sched.Start(ctx)
	go hub.Run()

	wsHandler := websocket.NewHandler(hub, cfg, log)
	authHandler := rest.NewAuthHandler(authService, cfg)
	instanceHandler := rest.NewInstanceHandler(instanceService, log)
	gaugeHandler := rest.NewGaugeHandler(gaugeService, instanceService, gs, log)

	router := rest.NewRouter(cfg, &rest.RouterDeps{
		WS:       wsHandler,
		Auth:     authHandler,
		Instance: instanceHandler,
		Gauge:    gaugeHandler,
	})

	srv := rest.NewServer(router, cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting http server", "address", cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http server shutdown error", "error", err)
		}

	case err := <-errCh:
		log.Error("http server error", "error", err)
	}

	hub.Stop()
	log.Info("server stopped")
}

// runSnapshot samples this host twice, one refresh interval apart so the
// second sample has deltas, and prints the resulting gauge.
func runSnapshot(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	sources := source.NewSelector(nil, source.NewLocalSource(log))
	gauges := gauge.NewService(sources, gauge.Options{}, cfg.GaugeIdleTTL, 1, log)

	host, _ := os.Hostname()
	self := &domain.Instance{ID: uuid.New(), Name: host, Source: domain.SourceLocal}

	if _, err := gauges.Refresh(ctx, self); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cfg.GaugeRefreshInterval):
	}

	reading, err := gauges.Refresh(ctx, self)
	if err != nil {
		return err
	}

	title := "CPU"
	if host != "" {
		title += " · " + host
	}
	fmt.Println(render.Gauge(title, *reading))
	return nil
}
