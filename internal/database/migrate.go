package database

import (
	"context"
	_ "embed"
	"fmt"
	"log"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the schema. Every statement is idempotent so it is safe on each deploy.
func Migrate(ctx context.Context, db Service) error {
	// No bind arguments: pgx sends this over the simple protocol, which allows several statements.
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Println("Database schema applied")
	return nil
}
