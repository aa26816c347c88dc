package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	sharedinfra "chatvendas/internal/shared/infrastructure"
)

// DefaultSQLiteDSN base locale utilisée sans configuration
const DefaultSQLiteDSN = "file:chatvendas.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// Config paramètres de connexion
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// driverNames nom de driver database/sql enregistré pour chaque valeur de configuration
var driverNames = map[string]string{
	"sqlite":   "sqlite",
	"sqlite3":  "sqlite",
	"postgres": "postgres",
	"pgx":      "pgx",
}

// Open ouvre la base et vérifie la connexion
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	name, ok := driverNames[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	dsn := cfg.DSN
	if dsn == "" && name == "sqlite" {
		dsn = DefaultSQLiteDSN
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	// Pool de connexions
	db.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 25))
	db.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 5))
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	db.SetConnMaxLifetime(lifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}

// Dialect dialecte SQL du driver configuré
func Dialect(driver string) (sharedinfra.Dialect, error) {
	return sharedinfra.DialectForDriver(driver)
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
