package main

import (
	"context"
	"errors"
	"os"
	"time"

	"savings/internal/amqp"
	"savings/internal/cli"
	"savings/internal/log"
	"savings/internal/services"
	"savings/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)

	logger.Info("Starting advisory-worker",
		"interval", cfg.AdvisoryInterval,
		"concurrency", cfg.AdvisoryConcurrency,
		log.FieldMonths, cfg.ReportMonths)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the advisory worker")
		os.Exit(1)
	}

	gw, store := cli.InitStorage(context.Background(), logger, cfg.DatabasePath)

	publisher, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		gw.Close()
		os.Exit(1)
	}

	svc := services.NewSavingsService(store.Goals, store.Transactions)
	w := worker.NewAdvisoryWorker(svc, store.Users, publisher, cfg.ReportMonths, cfg.AdvisoryConcurrency)

	stopped := make(chan struct{})
	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		<-stopped
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
		if err := gw.Close(); err != nil {
			logger.Warn("Failed to close database", log.FieldError, err)
		}
	})

	go func() {
		defer close(stopped)
		if err := w.Run(ctx, cfg.AdvisoryInterval); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Advisory worker stopped", log.FieldError, err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
