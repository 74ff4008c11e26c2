// Package metrics records seeding run measurements. The orchestrator and
// the batch loader report through the Recorder interface; a Prometheus
// implementation and a no-op implementation are provided.
package metrics

import "time"

// Recorder receives run measurements.
type Recorder interface {
	// RecordRowRead counts one retained data row read from the source.
	RecordRowRead(table string)
	// RecordRowRejected counts one row dropped for shape mismatch.
	RecordRowRejected(table string)
	// RecordChunkFlushed counts one flushed chunk of size records.
	RecordChunkFlushed(table string, size int)
	// RecordRunCompleted records the terminal state and duration of a run.
	RecordRunCompleted(table string, status string, duration time.Duration)
}

// noopRecorder discards all measurements.
type noopRecorder struct{}

// NewNoopRecorder returns a Recorder that discards everything.
func NewNoopRecorder() Recorder {
	return noopRecorder{}
}

func (noopRecorder) RecordRowRead(string)                               {}
func (noopRecorder) RecordRowRejected(string)                           {}
func (noopRecorder) RecordChunkFlushed(string, int)                     {}
func (noopRecorder) RecordRunCompleted(string, string, time.Duration)   {}
