package gorm

import (
	"context"

	"go.uber.org/fx"

	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

// Module is an Fx module that provides the database adapter and closes the
// connection when the application stops.
var Module = fx.Options(
	fx.Provide(Connect),
	fx.Invoke(registerClose),
)

// registerClose hooks connection teardown into the fx lifecycle.
func registerClose(lc fx.Lifecycle, adapter *DBAdapter) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := adapter.Close(); err != nil {
				logger.Warnf("Failed to close database connection: %v", err)
				return err
			}
			return nil
		},
	})
}
