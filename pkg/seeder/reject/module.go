package reject

import (
	"go.uber.org/fx"

	config "github.com/tigerroll/tanemaki/pkg/seeder/core/config"
	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
)

// NewRejectSink selects the archive by configuration. Disabled archives get
// a no-op sink so the pipeline never branches on configuration itself.
func NewRejectSink(cfg *config.Config) port.RejectSink {
	rc := cfg.Tanemaki.Reject
	if !rc.Enabled {
		return NewNoopSink()
	}
	return NewParquetSink(rc.Path, cfg.Tanemaki.Seed.Delimiter, rc.Compression)
}

// Module provides the reject sink to the fx application.
var Module = fx.Options(
	fx.Provide(NewRejectSink),
)
