package main

import (
	"context"
	"log/slog"
	"os"

	"kamuisnap/internal/config"
	"kamuisnap/internal/consul"
	"kamuisnap/internal/files"
	"kamuisnap/internal/logger"
	"kamuisnap/internal/server"
	"kamuisnap/internal/storage"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	logger.SetDefault(logger.New("files-service"))

	if err := config.ValidateEnv(config.StorageVars); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srvCfg := server.LoadConfigFromEnv("FILES_SERVICE_PORT", 8085)
	host := config.GetEnvOrDefault("FILES_SERVICE_HOST", "files-service")

	store, err := storage.New(context.Background())
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	handler := files.NewServer(files.NewService(store),
		config.GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})).RegisterRoutes()

	consulClient, err := consul.NewClientWithToken(
		config.GetEnvOrDefault("CONSUL_HTTP_ADDR", "localhost:8500"),
		config.GetEnvOrDefault("CONSUL_HTTP_TOKEN", ""))
	if err != nil {
		slog.Error("Failed to create Consul client", "error", err)
		os.Exit(1)
	}
	deregister, err := consul.RegisterService(consulClient,
		consul.NewServiceConfig("files-service", host, srvCfg.Port, "files", "storage", "api"))
	if err != nil {
		slog.Error("Failed to register service with Consul", "error", err)
		os.Exit(1)
	}

	if err := server.Run(server.New(handler, srvCfg), srvCfg.ShutdownTimeout, deregister); err != nil {
		slog.Error("Files service stopped with error", "error", err)
		os.Exit(1)
	}
}
