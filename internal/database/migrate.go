package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/studyplanner/internal/config"
	"github.com/at-ishikawa/studyplanner/schemas"
)

// Migrate applies the embedded migrations of the driver to db.
// An up-to-date schema is not an error.
func Migrate(db *sqlx.DB, driver string) error {
	src, err := iofs.New(schemas.Migrations, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("iofs.New(%s) > %w", driver, err)
	}
	defer func() {
		_ = src.Close()
	}()

	var target migratedb.Driver
	switch driver {
	case config.DriverMySQL:
		target, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case config.DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("migrate %s.WithInstance() > %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("migrate.NewWithInstance() > %w", err)
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Debug("database schema is up to date", "driver", driver)
			return nil
		}
		return fmt.Errorf("m.Up() > %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("m.Version() > %w", err)
	}
	slog.Info("database migrated", "driver", driver, "version", version)
	return nil
}
