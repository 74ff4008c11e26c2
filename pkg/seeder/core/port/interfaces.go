// Package port defines the interfaces between the seeding core and its
// collaborators: the row source, the schema catalog, the table writer,
// the report sink and the reject sink. The core depends only on these
// contracts, never on concrete adapters.
package port

import (
	"context"

	model "github.com/tigerroll/tanemaki/pkg/seeder/core/model"
)

// RowSource produces the raw rows of one delimited source, split into
// fields. Implementations are one-shot: a source that has reached the end
// can only be restarted by reopening it.
type RowSource interface {
	// Open prepares the source for reading. A missing source is a
	// configuration error for the run.
	Open(ctx context.Context) error
	// ReadRow returns the next row's fields. It returns io.EOF when the
	// source is exhausted. Fully empty lines are skipped by the source.
	ReadRow(ctx context.Context) ([]string, error)
	// Close releases the underlying handle. Safe to call after a failed Open.
	Close(ctx context.Context) error
}

// SchemaCatalog answers existence questions about the destination schema.
type SchemaCatalog interface {
	// TableExists reports whether the named table is present.
	TableExists(ctx context.Context, table string) (bool, error)
}

// TableWriter mutates the destination table. Truncate and each InsertMany
// call are independent atomic units; the writer never wraps a whole run in
// one transaction.
type TableWriter interface {
	// Truncate deletes all existing rows of the table.
	Truncate(ctx context.Context, table string) error
	// InsertMany issues a single multi-row insert for the given records.
	InsertMany(ctx context.Context, table string, records []model.Record) error
}

// ReportLevel classifies report sink messages.
type ReportLevel string

const (
	ReportInfo  ReportLevel = "INFO"
	ReportWarn  ReportLevel = "WARN"
	ReportError ReportLevel = "ERROR"
)

// ReportSink receives the user-visible messages of a run: header warnings,
// the final summary and the abort message. The core never depends on its
// behavior beyond delivery.
type ReportSink interface {
	Emit(level ReportLevel, message string)
}

// RejectSink archives rows the pipeline dropped, for later inspection.
// Implementations buffer internally; Close finalizes the archive.
type RejectSink interface {
	Open(ctx context.Context, header []string) error
	// Append records one rejected row with its source line number and the
	// reason it was dropped.
	Append(ctx context.Context, line int, reason string, row []string) error
	Close(ctx context.Context) error
}

// Runnable is the entry point contract a seeding run satisfies. An external
// harness invokes Run exactly once per run.
type Runnable interface {
	Run(ctx context.Context) (*model.RunResult, error)
}
