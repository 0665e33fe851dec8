package data

import (
	"context"
	"database/sql"

	"github.com/target/photo-pipeline/internal/migrate"
)

// RunMigrations applies the embedded schema migrations for the photos table.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
