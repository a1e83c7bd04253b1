//go:build integration

// Package dbtest starts a throwaway PostgreSQL container for integration tests.
package dbtest

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"kamuisnap/internal/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// SkipIfNoDocker skips the test when the Docker daemon is unreachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// Start runs postgres, applies the schema and returns a connected Service.
// The container and connection are released with t.Cleanup.
func Start(t *testing.T) database.Service {
	t.Helper()
	SkipIfNoDocker(t)

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("kamuisnap"),
		postgres.WithUsername("kamuisnap"),
		postgres.WithPassword("kamuisnap"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := database.Open(dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// Truncate empties every table between subtests.
func Truncate(t *testing.T, db database.Service) {
	t.Helper()
	if _, err := db.Exec(context.Background(), `TRUNCATE likes, recipes, posts, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
}

// InsertUser creates a bare user row with the given id.
func InsertUser(t *testing.T, db database.Service, id, username string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, username, display_name) VALUES ($1, $2, 'x', $3, $3)`,
		id, username+"@example.com", username)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
}
