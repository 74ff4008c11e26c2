// Package app assembles the tanemaki application from its fx modules and
// runs one seeding run to completion.
package app

import (
	"context"

	"go.uber.org/fx"

	gormadapter "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm"
	config "github.com/tigerroll/tanemaki/pkg/seeder/core/config"
	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
	"github.com/tigerroll/tanemaki/pkg/seeder/metrics"
	"github.com/tigerroll/tanemaki/pkg/seeder/migration"
	"github.com/tigerroll/tanemaki/pkg/seeder/reject"
	"github.com/tigerroll/tanemaki/pkg/seeder/report"
	"github.com/tigerroll/tanemaki/pkg/seeder/runner"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"

	// Dialector registration for the supported databases.
	_ "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm/mysql"
	_ "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm/postgres"
	_ "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm/sqlite"
)

// RunApplication sets up the fx container and executes one seeding run.
// The process exit code is zero unless the run failed writing to the
// database.
func RunApplication(appCtx context.Context, envFilePath string, embeddedConfig config.EmbeddedConfig) {
	app := fx.New(
		fx.Supply(
			embeddedConfig,
			fx.Annotate(envFilePath, fx.ResultTags(`name:"envFilePath"`)),
			fx.Annotate(
				appCtx,
				fx.As(new(context.Context)),
				fx.ResultTags(`name:"appCtx"`),
			),
		),

		logger.Module,
		config.Module,
		gormadapter.Module,
		metrics.Module,
		report.Module,
		reject.Module,
		migration.Module,
		runner.Module,

		fx.Invoke(fx.Annotate(startSeedExecution, fx.ParamTags(
			"",              // lc fx.Lifecycle
			"",              // shutdowner fx.Shutdowner
			"",              // runnable port.Runnable
			`name:"appCtx"`, // appCtx context.Context
		))),
	)

	// Run blocks until the run requested shutdown and exits the process
	// with the code the run chose.
	app.Run()
}

// startSeedExecution launches the run when the container starts and shuts
// the application down when it finishes.
func startSeedExecution(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	runnable port.Runnable,
	appCtx context.Context,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				code := 0
				defer func() {
					if r := recover(); r != nil {
						logger.Errorf("Panic recovered in seed execution: %v", r)
						code = 1
					}
					if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
						logger.Errorf("Failed to shutdown application: %v", err)
					}
				}()

				result, err := runnable.Run(appCtx)
				if err != nil {
					code = 1
				}
				if result != nil {
					logger.Infof("Seeding run %s finished with status %s in %v.",
						result.ID, result.Status, result.Duration())
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Infof("Application is shutting down.")
			return nil
		},
	})
}
