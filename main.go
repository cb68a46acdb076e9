// main.go
package main

import (
	"context"
	"log"

	"movietix/cmd"
	"movietix/internal/data/repository"
	"movietix/internal/wire"
	"movietix/pkg/database"
	"movietix/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load admin settings and rebuild seat maps from persisted state
	if err := app.Service.Admin.Load(ctx); err != nil {
		logger.Fatal("Failed to load admin settings", zap.Error(err))
	}
	if err := app.Service.Inventory.Rehydrate(ctx); err != nil {
		logger.Fatal("Failed to rehydrate seat inventory", zap.Error(err))
	}

	// Background sweep of expired holds
	go app.Service.Inventory.RunSweeper(ctx, config.Booking.SweepInterval)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
