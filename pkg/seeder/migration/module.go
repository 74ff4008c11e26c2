package migration

import "go.uber.org/fx"

// Module provides the migrator to the fx application.
var Module = fx.Options(
	fx.Provide(NewMigrator),
)
