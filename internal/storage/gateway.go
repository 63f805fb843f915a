package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"savings/internal/core"

	_ "modernc.org/sqlite"
)

// Scanner is satisfied by *sql.Rows and *sql.Row.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc maps one result row to a record.
type ScanFunc[T any] func(Scanner) (T, error)

// Gateway owns the SQLite handle. Every call runs in its own transaction:
// commit on success, rollback on any failure, and the connection goes back
// to the pool before the call returns. Two calls are never atomic together.
type Gateway struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Gateway, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Gateway{db: db}, nil
}

// Writers wait on each other instead of failing with SQLITE_BUSY.
func dsn(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}

func (g *Gateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}

func (g *Gateway) withTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.StorageError{Op: op, Err: fmt.Errorf("begin: %w", err)}
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return &core.StorageError{Op: op, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &core.StorageError{Op: op, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Execute runs a query and returns every row.
func Execute[T any](ctx context.Context, g *Gateway, scan ScanFunc[T], query string, args ...any) ([]T, error) {
	var out []T
	err := g.withTx(ctx, "execute", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				return fmt.Errorf("scan row: %w", err)
			}
			out = append(out, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteOne runs a query and returns its first row; found is false when
// the query matched nothing.
func ExecuteOne[T any](ctx context.Context, g *Gateway, scan ScanFunc[T], query string, args ...any) (v T, found bool, err error) {
	err = g.withTx(ctx, "execute_one", func(tx *sql.Tx) error {
		var scanErr error
		v, scanErr = scan(tx.QueryRowContext(ctx, query, args...))
		if errors.Is(scanErr, sql.ErrNoRows) {
			return nil
		}
		if scanErr != nil {
			return scanErr
		}
		found = true
		return nil
	})
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// ExecuteInsert runs an INSERT and returns the identifier SQLite assigned.
func (g *Gateway) ExecuteInsert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	err := g.withTx(ctx, "execute_insert", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	return id, err
}

// ExecuteStatement runs a mutating statement and returns the affected row count.
func (g *Gateway) ExecuteStatement(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := g.withTx(ctx, "execute_statement", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}
