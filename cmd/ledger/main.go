package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/activity"
	"ledger/internal/backend"
	"ledger/internal/cache"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/core"
	apphttp "ledger/internal/http"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("Server exited with error", applog.FieldError, err)
		stop()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, logger *applog.Logger, cfg *config.Config) error {
	repo := cli.InitSQLite(ctx, logger, cfg)
	defer repo.Close()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	exp, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	if exp.Cleanup != nil {
		defer exp.Cleanup()
	}

	views := cache.NewLRUCache[ledger.View](cfg.ViewCacheSize, cfg.ViewCacheTTL)
	caches := cache.NewManager()
	caches.Register(views)
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	var svc *services.TransactionService
	hub := activity.NewHub(func(ctx context.Context) ([]core.Activity, error) {
		return svc.RecentActivity(ctx)
	})

	opts := []services.Option{
		services.WithActivity(hub),
		services.WithWorkbookWriter(exp.Backend),
		services.WithViewCache(views),
	}
	// Without a broker there is no worker to keep the mirror current, so
	// the server refreshes it itself, on the sync interval and after each
	// change.
	var processor *services.MirrorProcessor
	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
		opts = append(opts, services.WithEvents(amqpClient))
	} else {
		processor = services.NewMirrorProcessor(repo, exp.Backend, services.MirrorProcessorConfig{Interval: cfg.SyncInterval})
		opts = append(opts, services.WithEvents(processor))
	}
	svc = services.NewTransactionService(repo, opts...)

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		AdminToken:         cfg.AdminToken,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	}, svc,
		apphttp.WithLogger(logger),
		apphttp.WithActivityFeed(hub),
		apphttp.WithReadinessCheck("sqlite", repo.Ping),
		apphttp.WithGauge(apphttp.Gauge{Name: "view_cache_entries", Help: "Cached dashboard views", Value: func() int64 { return int64(views.Size()) }}),
		apphttp.WithGauge(apphttp.Gauge{Name: "activity_clients", Help: "Connected activity feed clients", Value: func() int64 { return int64(hub.Clients()) }}),
	)
	if err != nil {
		return err
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if processor != nil {
		if err := processor.Start(gctx); err != nil {
			return err
		}
		g.Go(func() error {
			<-gctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return processor.Stop(stopCtx)
		})
	}

	g.Go(func() error {
		logger.Info("Starting ledger server",
			"port", cfg.Port,
			"export_backend", cfg.ExportBackend,
			"amqp_enabled", amqpClient != nil,
			"admin_token", cfg.AdminToken != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
