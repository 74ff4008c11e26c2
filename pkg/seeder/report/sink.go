// Package report delivers the user-visible messages of a seeding run.
package report

import (
	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

// LogSink routes report messages through the package logger.
type LogSink struct{}

// Verify that LogSink implements the port.ReportSink interface.
var _ port.ReportSink = (*LogSink)(nil)

// NewLogSink creates a LogSink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Emit implements port.ReportSink.
func (s *LogSink) Emit(level port.ReportLevel, message string) {
	switch level {
	case port.ReportWarn:
		logger.Warnf("%s", message)
	case port.ReportError:
		logger.Errorf("%s", message)
	default:
		logger.Infof("%s", message)
	}
}
