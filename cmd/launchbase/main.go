package main

import (
	"github.com/joho/godotenv"
	"github.com/launchbase-dev/launchbase/db"
	"github.com/launchbase-dev/launchbase/internal/auth"
	"github.com/launchbase-dev/launchbase/internal/config"
	"github.com/launchbase-dev/launchbase/internal/logger"
	"github.com/launchbase-dev/launchbase/internal/router"
	"github.com/launchbase-dev/launchbase/internal/services"
)

func main() {
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, relying on environment")
	}

	if err := config.Load(); err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	logger.Configure(config.App.Env)

	if err := auth.InitJWTSecret(); err != nil {
		logger.Fatal("failed to init session secret", "error", err)
	}

	services.InitStripe()

	if err := db.ConnectDatabase(config.App.DatabaseURL); err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		logger.Fatal("failed to migrate database", "error", err)
	}

	r := router.NewRouter()

	logger.Info("starting server", "port", config.App.Port, "env", config.App.Env)

	if err := r.Run(":" + config.App.Port); err != nil {
		logger.Fatal("failed to start server", "error", err)
	}
}
