package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"kosku/internal/amqp"
	"kosku/internal/cli"
	apphttp "kosku/internal/http"
	applog "kosku/internal/log"
	"kosku/internal/services"
	gsheet "kosku/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(applog.ComponentHTTP)
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// AMQP is optional for the API process. Without it, generated-payment
	// events are not announced and async generation is rejected.
	var (
		publisher services.EventPublisher
		commands  apphttp.CommandPublisher
	)
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPCommandQueue, cfg.AMQPEventQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, payment events disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
		commands = amqpClient
	}

	// Google Sheets export is optional as well.
	var summarySvc *services.SummaryService
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		summarySvc = services.NewSummaryService(repo, sheetsClient)
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		summarySvc = services.NewSummaryService(repo, nil)
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port,
		services.NewRoomService(repo),
		services.NewBillingService(repo, publisher),
		services.NewLedgerService(repo),
		summarySvc,
		commands,
		cfg.SummaryCacheTTL,
	)

	// Make the request-scoped logger available to handlers
	srv.Server.Handler = applog.Middleware(logger)(srv.Server.Handler)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting kosku server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
