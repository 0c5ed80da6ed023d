// Package sqlite implements the Grove storage interfaces on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/orchardworks/grove/internal/platform/storage/sqlitemigrate"
	"github.com/orchardworks/grove/internal/storage"
	"github.com/orchardworks/grove/internal/storage/sqlite/migrations"
)

// Store provides a SQLite-backed store implementing all storage interfaces.
type Store struct {
	sqlDB *sql.DB
	tx    *sql.Tx
	clock func() time.Time
}

var (
	_ storage.Tx         = (*Store)(nil)
	_ storage.Transactor = (*Store)(nil)
)

// Open opens (and migrates) a SQLite economy store at the provided path.
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Transactions span multiple statements; a single connection avoids
	// SQLITE_BUSY between them.
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Store{sqlDB: sqlDB, clock: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// InTx runs fn against a transaction-scoped view of the store. The
// transaction commits only when fn returns nil; any error rolls every write
// back, which is what lets the service layer validate a whole plan and then
// commit it as one unit.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	if s.tx != nil {
		return fmt.Errorf("nested transactions are not supported")
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	scoped := &Store{sqlDB: s.sqlDB, tx: tx, clock: s.clock}
	if err := fn(scoped); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) q() querier {
	if s.tx != nil {
		return s.tx
	}
	return s.sqlDB
}

func (s *Store) nowMillis() int64 {
	return s.clock().UTC().UnixMilli()
}

// toNullUUID maps optional referral slots to nullable TEXT columns.
func toNullUUID(id uuid.UUID) sql.NullString {
	if id == uuid.Nil {
		return sql.NullString{}
	}
	return sql.NullString{String: id.String(), Valid: true}
}

func fromNullUUID(value sql.NullString) (uuid.UUID, error) {
	if !value.Valid {
		return uuid.Nil, nil
	}
	return uuid.Parse(value.String)
}
