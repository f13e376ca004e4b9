package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrations embed.FS

// migrationDir returns the goose dialect and embedded directory for a driver.
func migrationDir(driver string) (dialect, dir string, err error) {
	switch driver {
	case DriverPostgres:
		return "postgres", "migrations/postgres", nil
	case DriverMySQL:
		return "mysql", "migrations/mysql", nil
	}
	return "", "", fmt.Errorf("no migrations for driver %q", driver)
}

// Migrate applies every pending schema migration for db's dialect.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dialect, dir, err := migrationDir(db.DriverName())
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}
