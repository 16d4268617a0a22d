package securestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intdb "backoffice/internal/db"
)

const tableName = "secure_store"

// SQLBackend stores blobs in a secure_store(k, v, updated_at) table.
type SQLBackend struct {
	DB      *sql.DB
	Dialect intdb.Dialect
}

// NewSQLBackend returns a backend and creates its table when missing.
func NewSQLBackend(ctx context.Context, db *sql.DB, dialect intdb.Dialect) (*SQLBackend, error) {
	b := &SQLBackend{DB: db, Dialect: dialect}
	if err := b.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// EnsureSchema creates the table if information_schema does not list it.
func (b *SQLBackend) EnsureSchema(ctx context.Context) error {
	ok, err := intdb.HasTable(ctx, b.DB, b.Dialect, tableName)
	if err != nil {
		return fmt.Errorf("look up %s: %w", tableName, err)
	}
	if ok {
		return nil
	}
	if _, err := b.DB.ExecContext(ctx, b.createTableSQL()); err != nil {
		return fmt.Errorf("create %s: %w", tableName, err)
	}
	return nil
}

func (b *SQLBackend) createTableSQL() string {
	if b.Dialect == intdb.Postgres {
		return `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
			k VARCHAR(191) PRIMARY KEY,
			v BYTEA NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`
	}
	return `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		k VARCHAR(191) NOT NULL PRIMARY KEY,
		v BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	) DEFAULT CHARSET=utf8mb4`
}

func (b *SQLBackend) upsertSQL() string {
	p := b.Dialect.Placeholder
	if b.Dialect == intdb.Postgres {
		return `INSERT INTO ` + tableName + ` (k, v, updated_at) VALUES (` + p(1) + `, ` + p(2) + `, ` + p(3) + `)
			ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = EXCLUDED.updated_at`
	}
	return `INSERT INTO ` + tableName + ` (k, v, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)`
}

func (b *SQLBackend) Put(ctx context.Context, key string, blob []byte) error {
	_, err := b.DB.ExecContext(ctx, b.upsertSQL(), key, blob, time.Now().UTC())
	return err
}

func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := b.DB.QueryRowContext(ctx,
		`SELECT v FROM `+tableName+` WHERE k = `+b.Dialect.Placeholder(1)+` LIMIT 1`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (b *SQLBackend) Delete(ctx context.Context, key string) error {
	_, err := b.DB.ExecContext(ctx, `DELETE FROM `+tableName+` WHERE k = `+b.Dialect.Placeholder(1), key)
	return err
}

func (b *SQLBackend) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.DB.QueryContext(ctx, `SELECT k FROM `+tableName+` ORDER BY k`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
