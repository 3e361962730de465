package main

import (
	"context"
	"errors"
	"time"

	"kosku/internal/amqp"
	"kosku/internal/cli"
	applog "kosku/internal/log"
	"kosku/internal/services"
	"kosku/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting kosku-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPCommandQueue, cfg.AMQPEventQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		return
	}
	defer amqpClient.Close()

	billing := services.NewBillingService(repo, amqpClient)
	billingWorker := worker.NewBillingWorker(billing)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Consume generate commands from the API process.
	go func() {
		err := amqpClient.ConsumeGenerateCommands(ctx, func(msg *amqp.GenerateMonthMessage) error {
			return billingWorker.HandleGenerateCommand(ctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
		}
	}()

	// Periodic sweep covers months where the command message was lost.
	go billingWorker.RunSweepLoop(ctx, cfg.SweepInterval)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
