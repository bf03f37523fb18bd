package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/SmelhausJosef/Kokot-AI/config"
	"github.com/SmelhausJosef/Kokot-AI/internal/routes"
	"github.com/SmelhausJosef/Kokot-AI/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, reading configuration from environment")
	}

	config.LoadJWTKey()
	config.ConnectDB()
	config.ConnectRedis()

	if err := models.AutoMigrate(config.DB); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter()
	slog.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
