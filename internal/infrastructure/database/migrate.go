package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"studio-backend/migrations"
)

// Migrate runs the embedded SQL migrations against the configured database.
// Uses a short-lived database/sql connection; the pgx pool stays untouched.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	sqlDB, err := sql.Open("pgx", db.buildConnectionString())
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
