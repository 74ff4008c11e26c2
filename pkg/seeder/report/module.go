package report

import (
	"go.uber.org/fx"

	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
)

// Module provides the report sink to the fx application.
var Module = fx.Options(
	fx.Provide(func() port.ReportSink { return NewLogSink() }),
)
