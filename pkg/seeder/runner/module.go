package runner

import (
	"go.uber.org/fx"

	gormadapter "github.com/tigerroll/tanemaki/pkg/seeder/adapter/database/gorm"
	config "github.com/tigerroll/tanemaki/pkg/seeder/core/config"
	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
	"github.com/tigerroll/tanemaki/pkg/seeder/metrics"
	"github.com/tigerroll/tanemaki/pkg/seeder/migration"
	"github.com/tigerroll/tanemaki/pkg/seeder/source/file"
)

// newFileSource builds the row source for the configured seed file.
func newFileSource(cfg *config.Config) port.RowSource {
	seed := cfg.Tanemaki.Seed
	return file.NewSource(seed.Source, seed.Delimiter)
}

// newRunner wires the runner from the container. The database adapter
// serves as both the schema catalog and the table writer.
func newRunner(
	cfg *config.Config,
	source port.RowSource,
	adapter *gormadapter.DBAdapter,
	report port.ReportSink,
	rejects port.RejectSink,
	recorder metrics.Recorder,
	migrator *migration.Migrator,
) *Runner {
	return NewRunner(cfg, source, adapter, adapter, report, rejects, recorder, migrator)
}

// Module provides the row source and the runner to the fx application.
var Module = fx.Options(
	fx.Provide(newFileSource),
	fx.Provide(newRunner),
	fx.Provide(func(r *Runner) port.Runnable { return r }),
)
