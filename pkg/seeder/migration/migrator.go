// Package migration applies golang-migrate scripts before a seed run so the
// destination table exists with the expected shape.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	gormadapter "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

const moduleName = "migration"

// migrationsTable tracks applied versions in the destination database.
const migrationsTable = "tanemaki_schema_migrations"

// Migrator applies pending "up" migrations from a local directory.
type Migrator struct {
	adapter *gormadapter.DBAdapter
}

// NewMigrator creates a Migrator running against the given database adapter.
func NewMigrator(adapter *gormadapter.DBAdapter) *Migrator {
	return &Migrator{adapter: adapter}
}

// databaseDriver returns the migrate/v4 driver for the configured database type.
func (m *Migrator) databaseDriver(sqlDB *sql.DB) (database.Driver, error) {
	switch m.adapter.Type() {
	case "postgres", "redshift":
		return postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: migrationsTable})
	case "mysql":
		return mysql.WithInstance(sqlDB, &mysql.Config{MigrationsTable: migrationsTable})
	case "sqlite":
		return sqlite.WithInstance(sqlDB, &sqlite.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported database type for migration: %s", m.adapter.Type())
	}
}

// Up applies all pending migrations found in dir. A directory with nothing
// left to apply is not an error.
func (m *Migrator) Up(ctx context.Context, dir string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if dir == "" {
		return exception.NewConfigError(moduleName, "migration enabled but no directory configured", nil)
	}
	if _, err := os.Stat(dir); err != nil {
		return exception.NewConfigError(moduleName,
			fmt.Sprintf("migration directory '%s' is not accessible", dir), err)
	}

	sqlDB, err := m.adapter.GormDB().DB()
	if err != nil {
		return exception.NewBatchError(moduleName, "failed to get underlying sql.DB", err, false)
	}

	sourceDriver, err := iofs.New(os.DirFS(dir), ".")
	if err != nil {
		return exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to read migration scripts from '%s'", dir), err, false)
	}

	dbDriver, err := m.databaseDriver(sqlDB)
	if err != nil {
		return exception.NewBatchError(moduleName, "failed to create migration database driver", err, false)
	}

	instance, err := migrate.NewWithInstance("iofs", sourceDriver, m.adapter.Type(), dbDriver)
	if err != nil {
		return exception.NewBatchError(moduleName, "failed to create migrate instance", err, false)
	}
	defer instance.Close()

	logger.Infof("Applying migrations from '%s'.", dir)
	if err := instance.Up(); err != nil && err != migrate.ErrNoChange {
		return exception.NewBatchError(moduleName,
			fmt.Sprintf("migration failed (db: %s, dir: %s)", m.adapter.Type(), dir), err, false)
	}
	logger.Infof("Migrations up to date.")
	return nil
}
