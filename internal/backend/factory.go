package backend

import (
	"context"
	"fmt"
	"log/slog"

	"pitaka/internal/amqp"
	"pitaka/internal/storage"
	"pitaka/internal/store/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it transactions stay queued as pending and
	// the worker's periodic re-scan picks them up.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
			amqpClient = nil
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	cleanup := func() error {
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				f.logger.Warn("AMQP close failed", "error", err)
			}
		}
		return sqliteRepo.Close()
	}

	return &BackendResult{
		Backend: sqliteRepo,
		AMQP:    amqpClient,
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Backend: memory.New(),
		Cleanup: nil,
	}, nil
}
