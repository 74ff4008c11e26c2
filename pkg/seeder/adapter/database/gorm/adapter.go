// Package gorm provides the GORM-backed implementation of the schema
// catalog and table writer contracts, plus the dialector registry the
// per-database provider subpackages register into.
package gorm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"

	dbconfig "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/config"
	model "github.com/tigerroll/tanemaki/pkg/seeder/core/model"
	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

const moduleName = "database"

// DBAdapter wraps a *gorm.DB as the seeding core's schema catalog and
// table writer.
type DBAdapter struct {
	db     *gorm.DB
	cfg    dbconfig.DatabaseConfig
	dbType string
}

// Verify the adapter satisfies the core contracts.
var (
	_ port.SchemaCatalog = (*DBAdapter)(nil)
	_ port.TableWriter   = (*DBAdapter)(nil)
)

// NewDBAdapter wraps an established GORM connection.
func NewDBAdapter(db *gorm.DB, cfg dbconfig.DatabaseConfig) *DBAdapter {
	return &DBAdapter{db: db, cfg: cfg, dbType: cfg.Type}
}

// Type returns the database type of the underlying connection.
func (a *DBAdapter) Type() string {
	return a.dbType
}

// GormDB exposes the underlying *gorm.DB. Acceptable only within the
// adapter layer and its tests.
func (a *DBAdapter) GormDB() *gorm.DB {
	return a.db
}

// TableExists implements port.SchemaCatalog via the GORM migrator.
func (a *DBAdapter) TableExists(ctx context.Context, table string) (bool, error) {
	if err := validateIdent(table); err != nil {
		return false, err
	}
	return a.db.WithContext(ctx).Migrator().HasTable(table), nil
}

// Truncate implements port.TableWriter. It issues DELETE FROM rather than
// TRUNCATE so the statement behaves identically across the supported
// dialects, including SQLite.
func (a *DBAdapter) Truncate(ctx context.Context, table string) error {
	if err := validateIdent(table); err != nil {
		return err
	}
	result := a.db.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s", table))
	if result.Error != nil {
		return exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to delete rows from '%s'", table), result.Error, false)
	}
	logger.Debugf("Deleted %d existing rows from '%s'.", result.RowsAffected, table)
	return nil
}

// InsertMany implements port.TableWriter with a single multi-row insert.
func (a *DBAdapter) InsertMany(ctx context.Context, table string, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := validateIdent(table); err != nil {
		return err
	}

	rows := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		rows[i] = rec
	}

	result := a.db.WithContext(ctx).Table(table).Create(rows)
	if result.Error != nil {
		return exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to insert %d records into '%s'", len(records), table), result.Error, false)
	}
	return nil
}

// Close closes the underlying sql.DB.
func (a *DBAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// validateIdent rejects table names that cannot be interpolated safely.
// Table names come from configuration, not user input, but a stray quote or
// semicolon should fail loudly rather than reach the database.
func validateIdent(name string) error {
	if name == "" {
		return exception.NewConfigError(moduleName, "table name is empty", nil)
	}
	for _, r := range name {
		if r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			continue
		}
		return exception.NewConfigError(moduleName,
			fmt.Sprintf("table name '%s' contains unsupported character '%c'", name, r), nil)
	}
	return nil
}

// NewGormLogger creates a gorm logger that routes through the package
// logger at the configured level.
func NewGormLogger(level string) gorm_logger.Interface {
	var gormLevel gorm_logger.LogLevel
	switch strings.ToUpper(level) {
	case "DEBUG":
		gormLevel = gorm_logger.Info
	case "INFO", "WARN":
		gormLevel = gorm_logger.Warn
	case "ERROR":
		gormLevel = gorm_logger.Error
	default:
		gormLevel = gorm_logger.Silent
	}

	return gorm_logger.New(
		newGormWriter(),
		gorm_logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// gormWriter redirects GORM log output to the package logger.
type gormWriter struct{}

func newGormWriter() *gormWriter {
	return &gormWriter{}
}

// Printf implements the gorm logger writer interface.
func (w *gormWriter) Printf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
