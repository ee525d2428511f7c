// Package database opens the MySQL pool shared by the user and token
// repositories.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool sizing for an auth workload: short single-row statements, so a modest
// pool with recycled idle connections is enough.
const (
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxLifetime = 15 * time.Minute
	connMaxIdleTime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open builds the DSN, opens the pool and pings once so a bad address or
// credential fails startup instead of the first login.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// DSN formats the driver DSN. parseTime scans DATETIME columns into time.Time
// and loc=UTC pins them, so comparisons against the UTC expiry timestamps in
// refresh_tokens never shift by a timezone. An empty password omits the colon
// form entirely.
func DSN(user, pass, host, port, name string) string {
	cred := user
	if pass != "" {
		cred = user + ":" + pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cred, host, port, name)
}
