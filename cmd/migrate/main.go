package main

import (
	"fmt"
	"os"

	"github.com/zfogg/inkwell/backend/internal/config"
	"github.com/zfogg/inkwell/backend/internal/database"
	"github.com/zfogg/inkwell/backend/internal/logger"
)

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "up":
		runMigrationsUp()
	default:
		fmt.Println("Usage: migrate [up]")
		fmt.Println("  up - Create or update all tables and indexes")
		os.Exit(1)
	}
}

func runMigrationsUp() {
	cfg, err := config.Load()
	if err != nil {
		logger.FatalWithFields("Failed to load config", err)
	}
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		logger.FatalWithFields("Failed to initialize logger", err)
	}
	defer logger.Close()

	logger.Log.Info("Connecting to database...")
	db, err := database.Initialize(cfg.Database, false)
	if err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	logger.Log.Info("Running migrations...")
	if err := database.Migrate(db); err != nil {
		logger.FatalWithFields("Migration failed", err)
	}

	logger.Log.Info("All migrations completed successfully")
}
