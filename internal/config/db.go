package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlDriverName maps the STORE_DRIVER value to the registered database/sql driver.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case "mysql":
		return "mysql", nil
	case "postgres":
		return "pgx", nil
	default:
		return "", fmt.Errorf("no sql driver for %q", driver)
	}
}

// OpenDB opens and pings the database backing the secure store.
func OpenDB(ctx context.Context, store StoreEnv) (*sql.DB, error) {
	name, err := sqlDriverName(store.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(name, store.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", store.Driver, err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", store.Driver, err)
	}
	return db, nil
}
