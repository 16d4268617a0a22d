package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
)

// Dialect selects SQL flavour differences between the supported drivers.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// ParseDialect maps a STORE_DRIVER value to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case MySQL, Postgres:
		return Dialect(driver), nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", driver)
	}
}

// Placeholder returns the n-th (1-based) bind parameter.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// currentSchema is the expression naming the connection's schema.
func (d Dialect) currentSchema() string {
	if d == Postgres {
		return "current_schema()"
	}
	return "DATABASE()"
}

// QueryRower is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// HasTable reports whether table exists in the current schema. A broken
// connection is reported as an error so callers do not try to CREATE on it.
func HasTable(ctx context.Context, q QueryRower, d Dialect, table string) (bool, error) {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = `+d.currentSchema()+`
		  AND table_name = `+d.Placeholder(1)+`
		LIMIT 1
	`, table).Scan(&name)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case errors.Is(err, driver.ErrBadConn):
		return false, err
	case err != nil:
		return false, err
	}
	return name.Valid && name.String != "", nil
}
