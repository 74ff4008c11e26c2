// Package runner orchestrates one seeding run: validation, optional
// migration, truncation, header resolution, row transformation, chunked
// loading and the final summary. The run is strictly linear; there is no
// retry and no restart.
package runner

import (
	"context"
	"fmt"
	"io"

	config "github.com/tigerroll/tanemaki/pkg/seeder/core/config"
	model "github.com/tigerroll/tanemaki/pkg/seeder/core/model"
	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
	"github.com/tigerroll/tanemaki/pkg/seeder/header"
	"github.com/tigerroll/tanemaki/pkg/seeder/loader"
	"github.com/tigerroll/tanemaki/pkg/seeder/metrics"
	"github.com/tigerroll/tanemaki/pkg/seeder/migration"
	"github.com/tigerroll/tanemaki/pkg/seeder/transform"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

const moduleName = "runner"

// Runner executes one seeding run end to end.
//
// Outcome contract: a run that fails on its configuration or environment
// (missing source, unknown table, bad header) returns a FAILED RunResult
// with a nil error, after emitting exactly one error message. A run that
// fails writing to the database returns the write error so the process can
// exit non-zero.
type Runner struct {
	cfg      *config.Config
	source   port.RowSource
	catalog  port.SchemaCatalog
	writer   port.TableWriter
	report   port.ReportSink
	rejects  port.RejectSink
	recorder metrics.Recorder
	migrator *migration.Migrator
}

// Verify that Runner implements the port.Runnable interface.
var _ port.Runnable = (*Runner)(nil)

// NewRunner creates a Runner from its collaborators. migrator may be nil
// when no migration support is wired.
func NewRunner(
	cfg *config.Config,
	source port.RowSource,
	catalog port.SchemaCatalog,
	writer port.TableWriter,
	report port.ReportSink,
	rejects port.RejectSink,
	recorder metrics.Recorder,
	migrator *migration.Migrator,
) *Runner {
	if recorder == nil {
		recorder = metrics.NewNoopRecorder()
	}
	return &Runner{
		cfg:      cfg,
		source:   source,
		catalog:  catalog,
		writer:   writer,
		report:   report,
		rejects:  rejects,
		recorder: recorder,
		migrator: migrator,
	}
}

// Run executes the run. See the Runner doc for the outcome contract.
func (r *Runner) Run(ctx context.Context) (*model.RunResult, error) {
	seed := r.cfg.Tanemaki.Seed
	table := config.DeriveTable(seed)
	result := model.NewRunResult(table)
	logger.Infof("Seeding run %s started (source: '%s', table: '%s').", result.ID, seed.Source, table)

	if seed.Source == "" {
		return r.fail(result, exception.NewConfigError(moduleName, "no source file configured", nil))
	}

	if r.cfg.Tanemaki.Migration.Enabled && r.migrator != nil {
		if err := r.migrator.Up(ctx, r.cfg.Tanemaki.Migration.Dir); err != nil {
			return r.fail(result, err)
		}
	}

	exists, err := r.catalog.TableExists(ctx, table)
	if err != nil {
		return r.fail(result, exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to check table '%s'", table), err, false))
	}
	if !exists {
		return r.fail(result, exception.NewConfigError(moduleName,
			fmt.Sprintf("table not found: '%s'", table), nil))
	}

	if err := r.source.Open(ctx); err != nil {
		return r.fail(result, err)
	}
	defer func() {
		if err := r.source.Close(ctx); err != nil {
			logger.Warnf("Failed to close source: %v", err)
		}
	}()

	specs, rawHeader, err := r.resolveHeader(ctx, seed)
	if err != nil {
		return r.fail(result, err)
	}
	if len(specs) == 1 {
		r.report.Emit(port.ReportWarn,
			fmt.Sprintf("Header resolved to a single column; check the delimiter setting ('%s').", seed.Delimiter))
	}

	if err := r.rejects.Open(ctx, rawHeader); err != nil {
		return r.fail(result, err)
	}

	batch := loader.NewBatchLoader(r.writer, table, seed.ChunkSize, r.recorder)
	if err := batch.BeginRun(ctx, seed.Truncate); err != nil {
		return r.fail(result, err)
	}

	transformer := transform.NewTransformer(seed.Defaults, seed.HashFields, seed.TimestampPolicy)

	skipped := 0
	rowNum := 0
	for {
		row, err := r.source.ReadRow(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return r.fail(result, exception.NewBatchError(moduleName, "failed to read source row", err, false))
		}
		rowNum++

		// Offset-skipped rows count toward the total; they are read, just
		// never transformed or inserted.
		result.TotalRows++
		r.recorder.RecordRowRead(table)

		if skipped < seed.RowOffset {
			skipped++
			continue
		}

		rec, err := transformer.Transform(row, specs)
		if err != nil {
			if !exception.IsSkippable(err) {
				return r.fail(result, err)
			}
			result.RejectedRows++
			r.recorder.RecordRowRejected(table)
			logger.Warnf("Skipping row %d: %v", rowNum, err)
			if aerr := r.rejects.Append(ctx, rowNum, err.Error(), row); aerr != nil {
				logger.Warnf("Failed to archive rejected row %d: %v", rowNum, aerr)
			}
			continue
		}
		if rec == nil {
			continue
		}

		if err := batch.Append(ctx, rec); err != nil {
			return r.fail(result, err)
		}
		result.InsertedRows++
	}

	if err := batch.EndRun(ctx); err != nil {
		return r.fail(result, err)
	}

	// An archive failure is reported but never flips a completed run.
	if err := r.rejects.Close(ctx); err != nil {
		r.report.Emit(port.ReportWarn, fmt.Sprintf("Failed to finalize reject archive: %v", err))
	}

	result.MarkCompleted()
	r.recorder.RecordRunCompleted(table, string(result.Status), result.Duration())
	r.report.Emit(port.ReportInfo,
		fmt.Sprintf("Inserted %d of %d rows into table '%s'.", result.InsertedRows, result.TotalRows, table))
	return result, nil
}

// resolveHeader produces the column specs of the run, either from the
// configured column mapping or from the file's first non-empty line. When a
// mapping overrides a present header, the header line is still consumed.
func (r *Runner) resolveHeader(ctx context.Context, seed config.SeedConfig) ([]model.ColumnSpec, []string, error) {
	var rawHeader []string

	if seed.HasHeader {
		line, err := r.source.ReadRow(ctx)
		if err == io.EOF {
			return nil, nil, exception.NewConfigError(moduleName, "source is empty, expected a header line", nil)
		}
		if err != nil {
			return nil, nil, exception.NewBatchError(moduleName, "failed to read header line", err, false)
		}
		rawHeader = line
	}

	if len(seed.ColumnMapping) > 0 {
		rawHeader = seed.ColumnMapping
	}

	specs, err := header.Resolve(rawHeader, seed.AliasMap, seed.SkipPrefix)
	if err != nil {
		return nil, nil, err
	}
	return specs, rawHeader, nil
}

// fail ends the run on err: the result is marked failed, the metric is
// recorded and exactly one error message is emitted. Configuration errors
// return a nil error so the process still exits cleanly; anything else is
// handed back to the caller.
func (r *Runner) fail(result *model.RunResult, err error) (*model.RunResult, error) {
	result.MarkFailed(err)
	r.recorder.RecordRunCompleted(result.Table, string(result.Status), result.Duration())
	r.report.Emit(port.ReportError, fmt.Sprintf("Seeding run failed: %v", err))
	if exception.IsConfigError(err) {
		return result, nil
	}
	return result, err
}
