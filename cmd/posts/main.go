package main

import (
	"context"
	"log/slog"
	"os"

	"kamuisnap/internal/cache"
	"kamuisnap/internal/config"
	"kamuisnap/internal/consul"
	"kamuisnap/internal/database"
	"kamuisnap/internal/files"
	"kamuisnap/internal/logger"
	"kamuisnap/internal/posts"
	"kamuisnap/internal/server"
	"kamuisnap/internal/share"
	"kamuisnap/internal/storage"
	"kamuisnap/internal/twitter"
	"kamuisnap/internal/users"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	logger.SetDefault(logger.New("posts-service"))

	if err := config.ValidateEnv(config.DatabaseVars, config.StorageVars); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srvCfg := server.LoadConfigFromEnv("POSTS_SERVICE_PORT", 8082)
	host := config.GetEnvOrDefault("POSTS_SERVICE_HOST", "localhost")
	ctx := context.Background()

	db := database.New()

	redisClient := cache.NewClient(
		config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		config.GetEnvOrDefault("REDIS_PASSWORD", ""), 0)
	postCache := cache.Connect(ctx, redisClient)

	store, err := storage.New(ctx)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	media := files.NewService(store)

	postService := posts.NewService(posts.NewRepository(db), media, postCache)

	tw := twitter.NewClient(twitter.LoadConfig())
	shareService := share.NewService(postService, users.NewService(db, tw, postCache), tw,
		config.GetEnvOrDefault("PUBLIC_APP_URL", "http://localhost:5173"))

	checks := map[string]server.Check{
		"database": server.DatabaseCheck(db.Health),
		"storage":  server.ErrorCheck(media.HealthCheck),
	}
	router := posts.NewServer(postService, checks,
		config.GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"})).Router()
	share.NewHandler(shareService).RegisterRoutes(router)

	consulClient, err := consul.NewClientWithToken(
		config.GetEnvOrDefault("CONSUL_HTTP_ADDR", "localhost:8500"),
		config.GetEnvOrDefault("CONSUL_HTTP_TOKEN", ""))
	if err != nil {
		slog.Error("Failed to create Consul client", "error", err)
		os.Exit(1)
	}
	deregister, err := consul.RegisterService(consulClient,
		consul.NewServiceConfig("posts-service", host, srvCfg.Port, "posts", "recipes", "rankings", "api"))
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
		slog.Error("Posts service stopped with error", "error", err)
		os.Exit(1)
	}
}
