package main

import (
	"log/slog"
	"os"

	"kamuisnap/internal/config"
	"kamuisnap/internal/consul"
	"kamuisnap/internal/devcat"
	"kamuisnap/internal/logger"
	"kamuisnap/internal/server"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	log := logger.New("devcat-service")
	logger.SetDefault(log)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srvCfg := server.LoadConfigFromEnv("DEVCAT_SERVICE_PORT", 8086)
	host := config.GetEnvOrDefault("DEVCAT_SERVICE_HOST", "devcat-service")

	catalog, err := devcat.Load()
	if err != nil {
		slog.Error("Failed to load dev-cat content", "error", err)
		os.Exit(1)
	}

	router := devcat.SetupRouter(catalog, log,
		config.GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}))

	consulClient, err := consul.NewClientWithToken(
		config.GetEnvOrDefault("CONSUL_HTTP_ADDR", "localhost:8500"),
		config.GetEnvOrDefault("CONSUL_HTTP_TOKEN", ""))
	if err != nil {
		slog.Error("Failed to create Consul client", "error", err)
		os.Exit(1)
	}
	deregister, err := consul.RegisterService(consulClient,
		consul.NewServiceConfig("devcat-service", host, srvCfg.Port, "devcat", "story", "api"))
	if err != nil {
		slog.Error("Failed to register service with Consul", "error", err)
		os.Exit(1)
	}

	if err := server.Run(server.New(router, srvCfg), srvCfg.ShutdownTimeout, deregister); err != nil {
		slog.Error("Dev-cat service stopped with error", "error", err)
		os.Exit(1)
	}
}
