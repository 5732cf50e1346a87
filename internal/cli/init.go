// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/pitaka, cmd/pitaka-worker, and cmd/recurring-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"pitaka/internal/config"
	"pitaka/internal/log"
	"pitaka/internal/storage"
)

// SetupLogger initializes structured logging tagged with the component name
// and installs it as the process default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	sqliteRepo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return sqliteRepo
}
