// Package database opens the relational store backends and owns their schema
package database

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/KirkDiggler/dungeon-master/internal/errors"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// postgres unique_violation
const pqUniqueViolation = "23505"

// TimeFormat is a fixed-width UTC layout so stored timestamps sort lexically
const TimeFormat = "2006-01-02T15:04:05.000000000Z"

// Config selects a driver and data source
type Config struct {
	Driver string
	DSN    string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// Validate ensures the configuration can be opened
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if c.DSN == "" {
		vb.RequiredField("DSN")
	}
	errors.ValidateEnum("Driver", c.Driver, []string{DriverPostgres, DriverSQLite}, vb)
	return vb.Build()
}

// DB is a *sql.DB that knows its dialect
type DB struct {
	*sql.DB
	Driver string
}

// Open connects to the configured database and verifies the connection
func Open(ctx context.Context, cfg *Config) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid database config")
	}

	conn, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Store(err, "failed to open database")
	}

	switch {
	case cfg.Driver == DriverSQLite:
		// every connection to :memory: is a separate database, and sqlite
		// serializes writers anyway
		conn.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Store(err, "failed to reach database")
	}

	return &DB{DB: conn, Driver: cfg.Driver}, nil
}

// Rebind rewrites ? placeholders into the driver's native form
func (db *DB) Rebind(query string) string {
	if db.Driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InTx runs fn in a transaction, committing when it returns nil
func (db *DB) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Store(err, "failed to begin transaction")
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Store(err, "failed to commit transaction")
	}
	return nil
}

// FormatTime renders t in TimeFormat
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// IsUniqueViolation reports whether err is a primary key or unique constraint failure
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var liteErr sqlite3.Error
	if stderrors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrConstraint
	}

	return false
}
