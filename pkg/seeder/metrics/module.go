package metrics

import (
	"go.uber.org/fx"

	config "github.com/tigerroll/tanemaki/pkg/seeder/core/config"
)

// NewRecorder selects the recorder implementation from configuration.
func NewRecorder(cfg *config.Config) Recorder {
	if cfg.Tanemaki.Metrics.Enabled {
		return NewPrometheusRecorder()
	}
	return NewNoopRecorder()
}

// Module is an Fx module that provides the configured Recorder.
var Module = fx.Options(
	fx.Provide(NewRecorder),
)
