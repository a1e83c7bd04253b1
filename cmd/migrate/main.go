// Command migrate applies the KamuiSnap schema to the configured database.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"kamuisnap/internal/config"
	"kamuisnap/internal/database"
	"kamuisnap/internal/logger"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	logger.SetDefault(logger.New("migrate"))

	if err := config.ValidateEnv(config.DatabaseVars); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	db := database.New()

	ctx, cancel := context.WithTimeout(context.Background(), config.GetEnvDuration("MIGRATE_TIMEOUT", time.Minute))
	err := database.Migrate(ctx, db)
	cancel()
	_ = db.Close()

	if err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Migration complete")
}
