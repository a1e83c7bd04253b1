package main

import (
	"context"
	"log/slog"
	"os"

	"kamuisnap/internal/cache"
	"kamuisnap/internal/config"
	"kamuisnap/internal/consul"
	"kamuisnap/internal/database"
	"kamuisnap/internal/likes"
	"kamuisnap/internal/logger"
	"kamuisnap/internal/server"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	logger.SetDefault(logger.New("likes-service"))

	if err := config.ValidateEnv(config.DatabaseVars); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srvCfg := server.LoadConfigFromEnv("LIKES_SERVICE_PORT", 8084)
	host := config.GetEnvOrDefault("LIKES_SERVICE_HOST", "likes-service")

	db := database.New()

	// Likes only invalidate cached posts; a nil cache is fine.
	redisClient := cache.NewClient(
		config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		config.GetEnvOrDefault("REDIS_PASSWORD", ""), 0)
	postCache := cache.Connect(context.Background(), redisClient)

	router := likes.SetupRouter(
		likes.NewService(db, postCache),
		map[string]server.Check{"database": server.DatabaseCheck(db.Health)},
		config.GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	)

	consulClient, err := consul.NewClientWithToken(
		config.GetEnvOrDefault("CONSUL_HTTP_ADDR", "localhost:8500"),
		config.GetEnvOrDefault("CONSUL_HTTP_TOKEN", ""))
	if err != nil {
		slog.Error("Failed to create Consul client", "error", err)
		os.Exit(1)
	}
	deregister, err := consul.RegisterService(consulClient,
		consul.NewServiceConfig("likes-service", host, srvCfg.Port, "likes", "api"))
	if err != nil {
		slog.Error("Failed to register service with Consul", "error", err)
		os.Exit(1)
	}

	err = server.Run(server.New(router, srvCfg), srvCfg.ShutdownTimeout,
		deregister,
		func() { _ = redisClient.Close() },
		func() { _ = db.Close() },
	)
	if err != nil {
		slog.Error("Likes service stopped with error", "error", err)
		os.Exit(1)
	}
}
