package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kamuisnap/internal/auth"
	"kamuisnap/internal/cache"
	"kamuisnap/internal/config"
	"kamuisnap/internal/consul"
	"kamuisnap/internal/database"
	"kamuisnap/internal/logger"
	"kamuisnap/internal/server"
	"kamuisnap/internal/session"
	"kamuisnap/internal/twitter"
	"kamuisnap/internal/users"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	logger.SetDefault(logger.New("auth-service"))

	if err := config.ValidateEnv(config.DatabaseVars); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srvCfg := server.LoadConfigFromEnv("AUTH_SERVICE_PORT", 8081)
	host := config.GetEnvOrDefault("AUTH_SERVICE_HOST", "localhost")

	if err := users.RegisterValidators(); err != nil {
		slog.Error("Failed to register validators", "error", err)
		os.Exit(1)
	}

	db := database.New()

	redisClient := cache.NewClient(
		config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		config.GetEnvOrDefault("REDIS_PASSWORD", ""), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := redisClient.Ping(ctx).Err()
	cancel()
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	sessionMgr := session.NewManager(session.NewRedisStore(redisClient),
		config.GetEnvDuration("SESSION_MAX_AGE", session.DefaultMaxAge))

	tw := twitter.NewClient(twitter.LoadConfig())
	if !tw.Configured() {
		slog.Warn("Twitter credentials not set, account linking disabled")
	}

	router := auth.SetupRouter(
		auth.NewService(db),
		sessionMgr,
		users.NewService(db, tw, cache.New(redisClient)),
		map[string]server.Check{
			"database": server.DatabaseCheck(db.Health),
			"redis":    server.ErrorCheck(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		},
	)

	consulClient, err := consul.NewClientWithToken(
		config.GetEnvOrDefault("CONSUL_HTTP_ADDR", "localhost:8500"),
		config.GetEnvOrDefault("CONSUL_HTTP_TOKEN", ""))
	if err != nil {
		slog.Error("Failed to create Consul client", "error", err)
		os.Exit(1)
	}
	deregister, err := consul.RegisterService(consulClient,
		consul.NewServiceConfig("auth-service", host, srvCfg.Port, "auth", "users", "api"))
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
		slog.Error("Auth service stopped with error", "error", err)
		os.Exit(1)
	}
}
