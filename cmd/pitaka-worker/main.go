package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"pitaka/internal/amqp"
	"pitaka/internal/cache"
	"pitaka/internal/cli"
	"pitaka/internal/export/google"
	"pitaka/internal/log"
	"pitaka/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)

	logger.Info("Starting pitaka-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.GoogleSpreadsheetID == "" {
		logger.Info("Ledger export disabled - no GOOGLE_SPREADSHEET_ID provided, nothing to do")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SQLite repository holds the pending queue.
	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	ledger, err := google.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets ledger", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets ledger initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(sqliteRepo, ledger, cfg.SyncBatchSize)

	cacheManager := cache.NewManager()
	for _, c := range syncWorker.Caches() {
		cacheManager.Register(c)
	}
	cacheManager.StartCleanup(10 * time.Minute)
	defer cacheManager.Stop()

	// On startup, drain any pending transactions missed while the worker
	// was down.
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)

	// AMQP consumption drives the normal export path.
	g.Go(func() error {
		return amqpClient.ConsumeTransactionSync(gctx, func(msg *amqp.TransactionSyncMessage) error {
			return syncWorker.HandleSyncMessage(gctx, msg)
		})
	})

	// Periodic re-scan of the pending queue covers lost messages.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := syncWorker.ProcessPendingTransactions(gctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
