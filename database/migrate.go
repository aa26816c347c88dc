package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	sharedinfra "chatvendas/internal/shared/infrastructure"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose garde sa configuration dans des variables globales
var gooseMu sync.Mutex

// Migrate applique les migrations en attente
func Migrate(ctx context.Context, db *sql.DB, dialect sharedinfra.Dialect) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion version de schéma appliquée
func MigrationVersion(ctx context.Context, db *sql.DB, dialect sharedinfra.Dialect) (int64, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(string(dialect)); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db)
}
