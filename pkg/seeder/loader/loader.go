// Package loader accumulates transformed records and writes them to the
// destination table in bounded chunks, truncating once up front when
// configured.
package loader

import (
	"context"
	"fmt"

	model "github.com/tigerroll/tanemaki/pkg/seeder/core/model"
	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
	"github.com/tigerroll/tanemaki/pkg/seeder/metrics"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

const moduleName = "loader"

// BatchLoader buffers records and flushes them as multi-row inserts.
//
// Every record handed to Append is, at any instant, in exactly one of three
// places: the current buffer, the table (flushed), or lost because the run
// aborted before its chunk was written. No record is inserted twice.
type BatchLoader struct {
	writer    port.TableWriter
	table     string
	chunkSize int
	recorder  metrics.Recorder

	buffer []model.Record
	begun  bool
}

// NewBatchLoader creates a BatchLoader writing chunks of chunkSize records
// to table through writer.
func NewBatchLoader(writer port.TableWriter, table string, chunkSize int, recorder metrics.Recorder) *BatchLoader {
	if recorder == nil {
		recorder = metrics.NewNoopRecorder()
	}
	return &BatchLoader{
		writer:    writer,
		table:     table,
		chunkSize: chunkSize,
		recorder:  recorder,
		buffer:    make([]model.Record, 0, chunkSize),
	}
}

// BeginRun prepares the loader. When truncate is true it deletes all
// existing rows of the table, exactly once, before any record is appended.
// Truncation is not transactional with the subsequent inserts: a crash
// between truncation and the first insert leaves the table empty. That gap
// is a documented limitation of the truncate-then-insert design.
func (l *BatchLoader) BeginRun(ctx context.Context, truncate bool) error {
	if l.begun {
		return exception.NewBatchError(moduleName, "BeginRun called twice for one run", nil, false)
	}
	l.begun = true

	if !truncate {
		return nil
	}
	if err := l.writer.Truncate(ctx, l.table); err != nil {
		return exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to truncate table '%s'", l.table), err, false)
	}
	logger.Infof("Truncated table '%s' before load.", l.table)
	return nil
}

// Append buffers one record, flushing automatically when the buffer reaches
// the configured chunk size.
func (l *BatchLoader) Append(ctx context.Context, rec model.Record) error {
	l.buffer = append(l.buffer, rec)
	if len(l.buffer) >= l.chunkSize {
		return l.Flush(ctx)
	}
	return nil
}

// Flush writes the whole buffer as one multi-row insert and clears it.
// An empty buffer is a no-op. On insert failure the buffer is left intact
// and the error carries the underlying write error; the caller aborts the
// run without retrying.
func (l *BatchLoader) Flush(ctx context.Context) error {
	if len(l.buffer) == 0 {
		return nil
	}
	count := len(l.buffer)
	if err := l.writer.InsertMany(ctx, l.table, l.buffer); err != nil {
		return exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to insert chunk of %d records into '%s'", count, l.table), err, false)
	}
	l.buffer = l.buffer[:0]
	l.recorder.RecordChunkFlushed(l.table, count)
	logger.Debugf("Flushed chunk of %d records into '%s'.", count, l.table)
	return nil
}

// EndRun flushes the final, possibly short, chunk.
func (l *BatchLoader) EndRun(ctx context.Context) error {
	return l.Flush(ctx)
}

// Buffered returns the number of records awaiting flush.
func (l *BatchLoader) Buffered() int {
	return len(l.buffer)
}
