// Package storage provides a thin database/sql layer over embedded SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Driver names a database/sql driver.
type Driver string

// SQLite is the pure-Go modernc driver.
const SQLite Driver = "sqlite"

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// pragmas run on every file database after it opens.
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA foreign_keys=ON",
}

// Config holds database configuration.
type Config struct {
	Driver Driver `yaml:"driver" json:"driver"`
	// DSN is a file path or MemoryDSN.
	DSN string `yaml:"dsn" json:"dsn" env:"COUNTRYKIT_DB"`
}

// DB is a *sql.DB bound to one SQLite database.
type DB struct {
	*sql.DB
	driver Driver
	dsn    string
	logger *slog.Logger
}

// Open connects to the database in cfg. File databases get their parent
// directory created, WAL journaling and a busy timeout. An in-memory database
// is limited to a single connection so every query sees the same data.
func Open(cfg Config) (*DB, error) {
	if cfg.Driver == "" {
		cfg.Driver = SQLite
	}
	if cfg.Driver != SQLite {
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	memory := cfg.DSN == MemoryDSN
	if !memory {
		if dir := filepath.Dir(cfg.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if memory {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(8)
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if !memory {
		for _, p := range pragmas {
			if _, err := sqlDB.ExecContext(ctx, p); err != nil {
				sqlDB.Close()
				return nil, fmt.Errorf("%s: %w", p, err)
			}
		}
	}

	db := &DB{DB: sqlDB, driver: cfg.Driver, dsn: cfg.DSN, logger: slog.Default()}
	db.logger.Debug("database opened", "driver", cfg.Driver, "dsn", cfg.DSN)
	return db, nil
}

// DriverType returns the database driver type.
func (db *DB) DriverType() Driver {
	return db.driver
}

// Migrate executes schema, which should be idempotent (CREATE ... IF NOT EXISTS).
func (db *DB) Migrate(ctx context.Context, schema string) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate %s: %w", db.dsn, err)
	}
	db.logger.Debug("database migrated", "dsn", db.dsn)
	return nil
}

// Transaction runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise. The error from fn is kept for errors.Is.
func (db *DB) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
