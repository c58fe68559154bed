package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"schooldesk/internal/amqp"
	"schooldesk/internal/cli"
	apphttp "schooldesk/internal/http"
	applog "schooldesk/internal/log"
	"schooldesk/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitBackend(context.Background(), logger, cfg)

	// Change events are optional; without a broker snapshots are only
	// refreshed by schooldesk-export.
	var (
		publisher  services.ChangePublisher
		amqpClient *amqp.Client
	)
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, change events disabled", applog.FieldError, err)
		} else {
			amqpClient = client
			publisher = client
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
		}
	}

	directory := services.NewDirectory(store.Store, cfg.TenantRootDomain, publisher, logger)
	srv := apphttp.NewServer(":"+cfg.Port, directory, store.Ping, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("Error closing AMQP client", applog.FieldError, err)
			}
		}
		if err := store.Close(); err != nil {
			logger.Warn("Error closing record store", applog.FieldError, err)
		}
	})

	logger.Info("Starting schooldesk server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"root_domain", cfg.TenantRootDomain)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
