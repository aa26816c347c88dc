package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect famille SQL du driver ouvert (placeholders, types)
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectForDriver déduit le dialecte du nom de driver database/sql
func DialectForDriver(driver string) (Dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "pgx":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

// Rebind réécrit les placeholders "?" en "$1, $2..." pour PostgreSQL
// PERFORMANCE: un seul passage, pas de regexp; les requêtes ne contiennent
// jamais de "?" littéral.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Executor sous-ensemble commun de *sql.DB et *sql.Tx
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UnitOfWork gère les transactions pour les opérations d'écriture
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// DBUnitOfWork implémentation de UnitOfWork avec sql.DB
type DBUnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork crée une nouvelle instance de UnitOfWork
func NewUnitOfWork(db *sql.DB) UnitOfWork {
	return &DBUnitOfWork{db: db}
}

// Execute exécute fn dans une transaction: commit si fn réussit, rollback sinon
// (y compris en cas de panic, relancée ensuite)
func (uow *DBUnitOfWork) Execute(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := uow.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// BaseRepository structure de base pour les repositories
type BaseRepository struct {
	db      *sql.DB
	tx      *sql.Tx
	dialect Dialect
}

// NewBaseRepository crée un nouveau repository de base
func NewBaseRepository(db *sql.DB, dialect Dialect) BaseRepository {
	return BaseRepository{
		db:      db,
		dialect: dialect,
	}
}

// WithTx retourne une copie du repository liée à la transaction
func (r BaseRepository) WithTx(tx *sql.Tx) BaseRepository {
	r.tx = tx
	return r
}

// Dialect retourne le dialecte SQL
func (r *BaseRepository) Dialect() Dialect {
	return r.dialect
}

// Executor retourne l'exécuteur approprié (DB ou Tx)
func (r *BaseRepository) Executor() Executor {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Query exécute une requête de lecture
func (r *BaseRepository) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.Executor().QueryContext(ctx, r.dialect.Rebind(query), args...)
}

// QueryRow exécute une requête de lecture pour une seule ligne
func (r *BaseRepository) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.Executor().QueryRowContext(ctx, r.dialect.Rebind(query), args...)
}

// Exec exécute une requête d'écriture
func (r *BaseRepository) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.Executor().ExecContext(ctx, r.dialect.Rebind(query), args...)
}
