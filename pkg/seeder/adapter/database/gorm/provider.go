package gorm

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/config"
	config "github.com/tigerroll/tanemaki/pkg/seeder/core/config"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

// DialectorFactory produces a gorm.Dialector from a DatabaseConfig.
type DialectorFactory func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error)

var (
	dialectorRegistry = make(map[string]DialectorFactory)
	dialectorMutex    sync.RWMutex
)

// RegisterDialector registers a DialectorFactory for the given database
// type. The per-database provider subpackages call this from init().
func RegisterDialector(dbType string, factory DialectorFactory) {
	dialectorMutex.Lock()
	defer dialectorMutex.Unlock()
	if _, exists := dialectorRegistry[dbType]; exists {
		logger.Warnf("Dialector for type '%s' already registered. Overwriting.", dbType)
	}
	dialectorRegistry[dbType] = factory
}

// GetDialectorFactory retrieves the DialectorFactory for dbType.
func GetDialectorFactory(dbType string) (DialectorFactory, error) {
	dialectorMutex.RLock()
	defer dialectorMutex.RUnlock()
	factory, ok := dialectorRegistry[dbType]
	if !ok {
		return nil, fmt.Errorf("no dialector registered for database type: %s", dbType)
	}
	return factory, nil
}

// DecodeDatabaseConfig decodes the raw `database` map of the application
// configuration into a DatabaseConfig.
func DecodeDatabaseConfig(raw map[string]interface{}) (dbconfig.DatabaseConfig, error) {
	var dbCfg dbconfig.DatabaseConfig
	if len(raw) == 0 {
		return dbCfg, exception.NewConfigError(moduleName, "database configuration section is missing", nil)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &dbCfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return dbCfg, exception.NewConfigError(moduleName, "failed to create database config decoder", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return dbCfg, exception.NewConfigError(moduleName, "failed to decode database configuration", err)
	}
	if dbCfg.Type == "" {
		return dbCfg, exception.NewConfigError(moduleName, "database configuration has no 'type'", nil)
	}
	return dbCfg, nil
}

// Connect resolves the dialector for the configured type, opens the GORM
// connection and applies pool settings.
func Connect(cfg *config.Config) (*DBAdapter, error) {
	dbCfg, err := DecodeDatabaseConfig(cfg.Tanemaki.Database)
	if err != nil {
		return nil, err
	}

	factory, err := GetDialectorFactory(dbCfg.Type)
	if err != nil {
		return nil, exception.NewConfigError(moduleName,
			fmt.Sprintf("unsupported database type '%s'", dbCfg.Type), err)
	}
	dialector, err := factory(dbCfg)
	if err != nil {
		return nil, exception.NewConfigError(moduleName,
			fmt.Sprintf("failed to build dialector for '%s'", dbCfg.Type), err)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 NewGormLogger(cfg.Tanemaki.System.Logging.Level),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, exception.NewConfigError(moduleName,
			fmt.Sprintf("failed to open %s connection", dbCfg.Type), err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, exception.NewBatchError(moduleName, "failed to access underlying sql.DB", err, false)
	}
	if dbCfg.Pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbCfg.Pool.MaxOpenConns)
	}
	if dbCfg.Pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbCfg.Pool.MaxIdleConns)
	}
	if dbCfg.Pool.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(dbCfg.Pool.ConnMaxLifetimeMinutes) * time.Minute)
	}

	logger.Infof("Established %s connection to database '%s'.", dbCfg.Type, dbCfg.Database)
	return NewDBAdapter(gormDB, dbCfg), nil
}
