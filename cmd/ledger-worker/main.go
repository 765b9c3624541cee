package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/backend"
	"ledger/internal/cache"
	"ledger/internal/cli"
	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the ledger worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	logger.Info("Starting ledger-worker", "export_backend", cfg.ExportBackend, "sync_interval", cfg.SyncInterval)
	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("Worker exited with error", applog.FieldError, err)
		stop()
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(ctx context.Context, logger *applog.Logger, cfg *config.Config) error {
	repo, err := cli.OpenSQLite(logger, cfg.SQLiteDBPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	mirror, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return err
	}
	if mirror.Cleanup != nil {
		defer mirror.Cleanup()
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("amqp client: %w", err)
	}
	defer client.Close()

	processor := services.NewMirrorProcessor(repo, mirror.Backend, services.MirrorProcessorConfig{Interval: cfg.SyncInterval})
	mw := worker.NewMirrorWorker(processor)

	caches := cache.NewManager()
	caches.Register(mw.SeenCache())
	caches.StartCleanup(10 * time.Minute)
	defer caches.Stop()

	g, gctx := errgroup.WithContext(ctx)

	// The loop mirrors once on start, then on the sync interval to cover
	// any events lost while the worker was down.
	if err := processor.Start(gctx); err != nil {
		return err
	}
	g.Go(func() error {
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return processor.Stop(stopCtx)
	})

	g.Go(func() error {
		err := client.ConsumeWithReconnect(gctx, mw.HandleEvent)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("consume transaction events: %w", err)
		}
		return nil
	})

	return g.Wait()
}
