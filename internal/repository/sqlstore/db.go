package sqlstore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"smartconv/db"
	"smartconv/internal/config"
)

// NewDB opens the ledger database for the configured driver ("pgx" or "sqlite3").
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "pgx", "sqlite3":
	default:
		return nil, fmt.Errorf("unsupported db driver: %s", cfg.Driver)
	}

	conn, err := sqlx.Connect(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == "sqlite3" {
		// One connection serialises appends and keeps :memory: databases alive.
		conn.SetMaxOpenConns(1)
		return conn, nil
	}
	conn.SetMaxOpenConns(cfg.MaxOpen)
	conn.SetMaxIdleConns(cfg.MaxIdle)
	return conn, nil
}

// Migrate applies all pending embedded migrations for the connection's driver.
func Migrate(conn *sqlx.DB) error {
	m, closeFn, err := newMigrator(conn)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlstore.Migrate: %w", err)
	}
	return nil
}

// NewMigrator exposes the migrate instance for step and version commands.
// The returned function releases it without closing conn.
func NewMigrator(conn *sqlx.DB) (*migrate.Migrate, func(), error) {
	return newMigrator(conn)
}

func newMigrator(conn *sqlx.DB) (*migrate.Migrate, func(), error) {
	dir := "migrations/" + conn.DriverName()
	if conn.DriverName() == "pgx" {
		dir = "migrations/postgres"
	}
	sub, err := fs.Sub(db.Migrations, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlstore: locating migrations: %w", err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("sqlstore: opening migrations: %w", err)
	}

	var (
		drv  database.Driver
		name string
	)
	switch conn.DriverName() {
	case "sqlite3":
		name = "sqlite3"
		drv, err = sqlite3.WithInstance(conn.DB, &sqlite3.Config{})
	default:
		name = "postgres"
		drv, err = postgres.WithInstance(conn.DB, &postgres.Config{})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("sqlstore: migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, drv)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlstore: migrate instance: %w", err)
	}

	closeFn := func() {
		_ = src.Close()
		// The sqlite3 driver closes the *sql.DB it wraps; postgres only
		// releases its dedicated connection.
		if name == "postgres" {
			_ = drv.Close()
		}
	}
	return m, closeFn, nil
}
