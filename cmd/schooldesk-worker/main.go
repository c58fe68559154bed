package main

import (
	"context"
	"errors"
	"os"
	"time"

	"schooldesk/internal/amqp"
	"schooldesk/internal/cli"
	applog "schooldesk/internal/log"
	"schooldesk/internal/services"
	"schooldesk/internal/sheets"
	gsheet "schooldesk/internal/sheets/google"
	"schooldesk/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting schooldesk-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the snapshot worker")
		os.Exit(1)
	}

	store := cli.InitBackend(context.Background(), logger, cfg)
	defer store.Close()

	var sink sheets.ReportSink
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", applog.FieldError, err)
			os.Exit(1)
		}
		sink = client
		logger.Info("Google Sheets report sink initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// The worker only reads, so its directory publishes nothing.
	directory := services.NewDirectory(store.Store, cfg.TenantRootDomain, nil, logger)
	snapshots := worker.NewSnapshotWorker(cfg.SnapshotDir, directory, sink, cfg.SnapshotTimeout, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// Catch up on anything changed while the worker was down.
	if err := snapshots.SnapshotAll(ctx); err != nil {
		logger.Error("Startup snapshot failed", applog.FieldError, err)
	}

	go func() {
		err := amqpClient.ConsumeChanges(ctx, snapshots.Handle)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Change consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	}()

	logger.Info("Snapshot worker started",
		"queue", cfg.AMQPQueue,
		"snapshot_dir", cfg.SnapshotDir)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Snapshot worker stopped")
}
