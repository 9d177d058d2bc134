package db

import (
	"database/sql"
	"embed"
	"fmt"
	"sync/atomic"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open opens the SQLite database at dbPath and brings the schema up to
// date. Journal mode is WAL and foreign keys are enforced.
func Open(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", dbPath)
	return open(dsn)
}

var testDBSeq atomic.Int64

// OpenForTesting opens a fresh in-memory database with the full schema
// applied. Each call gets its own database; shared cache keeps the pool's
// connections pointed at the same one.
func OpenForTesting() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared&_foreign_keys=on", testDBSeq.Add(1))
	db, err := open(dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps the shared-cache database alive for the
	// test's lifetime and serializes writers, which in-memory SQLite
	// cannot otherwise do.
	db.SetMaxOpenConns(1)
	return db, nil
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}
