package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kamuisnap/internal/cache"
	"kamuisnap/internal/config"
	"kamuisnap/internal/consul"
	"kamuisnap/internal/gateway"
	"kamuisnap/internal/logger"
	"kamuisnap/internal/server"
	"kamuisnap/internal/session"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	log := logger.New("api-gateway")
	logger.SetDefault(log)

	srvCfg := server.LoadConfigFromEnv("GATEWAY_PORT", 8080)
	consulAddr := config.GetEnvOrDefault("CONSUL_HTTP_ADDR", "localhost:8500")
	redisAddr := config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379")
	perMinute := config.GetEnvInt("RATE_LIMIT_PER_MINUTE", 120)

	slog.Info("Starting API Gateway",
		"port", srvCfg.Port,
		"consul_addr", consulAddr,
		"redis_addr", redisAddr,
		"rate_limit_per_minute", perMinute,
	)

	consulClient, err := consul.NewClientWithToken(consulAddr, config.GetEnvOrDefault("CONSUL_HTTP_TOKEN", ""))
	if err != nil {
		slog.Error("Failed to create Consul client", "error", err)
		os.Exit(1)
	}

	redisClient := cache.NewClient(redisAddr, config.GetEnvOrDefault("REDIS_PASSWORD", ""), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = redisClient.Ping(ctx).Err()
	cancel()
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	sessionMgr := session.NewManager(session.NewRedisStore(redisClient),
		config.GetEnvDuration("SESSION_MAX_AGE", session.DefaultMaxAge))

	limiter := gateway.NewRateLimiter(perMinute)
	go limiter.StartCleanup(5 * time.Minute)

	router := gateway.SetupRouter(consulClient, sessionMgr, gateway.Config{
		AllowedOrigins: config.GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		RateLimiter:    limiter,
	})

	err = server.Run(server.New(router, srvCfg), srvCfg.ShutdownTimeout,
		limiter.Stop,
		func() { _ = redisClient.Close() },
	)
	if err != nil {
		slog.Error("API Gateway stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("API Gateway stopped")
}
