// Package postgres registers the PostgreSQL dialector factory.
package postgres

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/config"
	gormadapter "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm"
)

// init registers the "postgres" dialector factory with the gorm adapter.
func init() {
	gormadapter.RegisterDialector("postgres", func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		if cfg.Database == "" {
			return nil, errors.New("postgres database name cannot be empty")
		}
		sslmode := cfg.Sslmode
		if sslmode == "" {
			sslmode = "disable"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
			cfg.Host, cfg.User, cfg.Password, cfg.Database, cfg.Port, sslmode)
		return postgres.Open(dsn), nil
	})
}
