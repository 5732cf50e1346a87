package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"pitaka/internal/amqp"
	"pitaka/internal/cli"
	"pitaka/internal/log"
	"pitaka/internal/services"
	"pitaka/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentRecurring)

	logger.Info("Starting recurring-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// Materialized transactions sync to the ledger via pitaka-worker.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized - materialized transactions will sync via pitaka-worker")
		}
	} else {
		logger.Info("AMQP disabled - materialized transactions will not sync to the ledger")
	}

	txService := services.NewTransactionService(sqliteRepo, amqpClient)
	processor := services.NewRecurringProcessor(sqliteRepo, txService)

	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	// Run initial processing on startup
	logger.Info("Running initial recurring processing...")
	processAllUsers(ctx, logger, sqliteRepo, processor)

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Recurring-worker shutdown complete")
			return
		case <-ticker.C:
			logger.Info("Processing due recurring definitions...")
			processAllUsers(ctx, logger, sqliteRepo, processor)
		}
	}
}

// processAllUsers sweeps every user with a recurring collection and
// materializes whatever is due.
func processAllUsers(ctx context.Context, logger *log.Logger, repo *storage.SQLiteRepository, processor *services.RecurringProcessor) {
	users, err := repo.ListRecurringUsers(ctx)
	if err != nil {
		logger.Error("Failed to list recurring users", "error", err)
		return
	}

	now := time.Now()
	total := 0
	for _, user := range users {
		count, err := processor.ProcessDue(ctx, user, now)
		if err != nil {
			logger.Error("Processing failed", "user", user, "error", err)
			continue
		}
		total += count
	}

	logger.Info("Processing complete",
		"users", len(users),
		"transactions_created", total)
}
