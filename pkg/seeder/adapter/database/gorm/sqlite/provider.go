// Package sqlite registers the SQLite dialector factory.
package sqlite

import (
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/config"
	gormadapter "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm"
)

// init registers the "sqlite" dialector factory with the gorm adapter.
func init() {
	gormadapter.RegisterDialector("sqlite", func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		if cfg.Database == "" {
			return nil, errors.New("sqlite database path cannot be empty")
		}
		return sqlite.Open(cfg.Database), nil
	})
}
