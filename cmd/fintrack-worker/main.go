package main

import (
	"context"
	"errors"
	"os"
	"time"

	"fintrack/internal/cli"
	"fintrack/internal/services"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("Worker requires AMQP_URL to consume change notifications")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res := cli.InitBackend(ctx, logger, cfg)

	// The worker re-reads and rewrites records itself; it does not
	// publish changes, so no AMQP client is attached to the service.
	budgetService := services.NewBudgetService(res.Store, nil)
	refreshWorker := worker.NewRefreshWorker(budgetService, cfg.RefreshInterval)

	shutdownCtx, done := cli.GracefulShutdown(logger, 15*time.Second, func() {
		cancel()

		stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer stopCancel()
		if err := res.Cleanup(stopCtx); err != nil {
			logger.Error("Store cleanup error", "error", err)
		}
	})

	logger.Info("Starting fintrack-worker",
		"backend", cfg.DataBackend,
		"refresh_interval", cfg.RefreshInterval.String())

	if err := refreshWorker.Run(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Worker stopped gracefully")
}
