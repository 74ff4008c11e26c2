// Package reject archives rows the pipeline dropped, so a developer can
// inspect what a seed run rejected. Rows are buffered in memory and written
// as one parquet file when the sink is closed.
package reject

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	port "github.com/tigerroll/tanemaki/pkg/seeder/core/port"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
	logger "github.com/tigerroll/tanemaki/pkg/seeder/support/util/logger"
)

const moduleName = "reject"

// archivedRow is the parquet schema of one archived reject.
type archivedRow struct {
	Line   int32  `parquet:"name=line, type=INT32"`
	Reason string `parquet:"name=reason, type=BYTE_ARRAY, convertedtype=UTF8"`
	Row    string `parquet:"name=row, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ParquetSink buffers rejected rows and writes them to a local parquet file
// on Close. A run without rejects produces no file at all.
type ParquetSink struct {
	path        string
	delimiter   string
	compression string

	header   []string
	buffered []archivedRow
}

// Verify that ParquetSink implements the port.RejectSink interface.
var _ port.RejectSink = (*ParquetSink)(nil)

// NewParquetSink creates a ParquetSink writing to path. Rejected rows are
// re-joined with delimiter so the archive shows them as they appeared in
// the source. compression is one of SNAPPY, GZIP or NONE.
func NewParquetSink(path, delimiter, compression string) *ParquetSink {
	if compression == "" {
		compression = "SNAPPY"
	}
	return &ParquetSink{path: path, delimiter: delimiter, compression: compression}
}

// Open validates the configuration and remembers the resolved header.
func (s *ParquetSink) Open(ctx context.Context, header []string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if s.path == "" {
		return exception.NewConfigError(moduleName, "reject archive enabled but no path configured", nil)
	}
	if _, err := parseCompression(s.compression); err != nil {
		return exception.NewConfigError(moduleName,
			fmt.Sprintf("unsupported reject compression '%s'", s.compression), err)
	}
	s.header = header
	s.buffered = s.buffered[:0]
	return nil
}

// Append buffers one rejected row. No I/O happens here.
func (s *ParquetSink) Append(ctx context.Context, line int, reason string, row []string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	s.buffered = append(s.buffered, archivedRow{
		Line:   int32(line),
		Reason: reason,
		Row:    strings.Join(row, s.delimiter),
	})
	return nil
}

// Close writes all buffered rejects as one parquet file. Errors from the
// individual write stages are aggregated so a failing archive never masks
// how many rows it dropped.
func (s *ParquetSink) Close(ctx context.Context) error {
	if len(s.buffered) == 0 {
		logger.Debugf("Reject sink: nothing buffered, skipping archive.")
		return nil
	}

	codec, err := parseCompression(s.compression)
	if err != nil {
		return exception.NewBatchError(moduleName, "unsupported compression at close", err, false)
	}

	out, err := os.Create(s.path)
	if err != nil {
		return exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to create reject archive '%s'", s.path), err, false)
	}

	var multiErr error

	pw, err := writer.NewParquetWriterFromWriter(out, new(archivedRow), int64(len(s.buffered)))
	if err != nil {
		multiErr = multierror.Append(multiErr, exception.NewBatchError(moduleName,
			"failed to create parquet writer for reject archive", err, false))
	} else {
		pw.CompressionType = codec

		// Record the resolved header first so the archive is self-describing.
		rows := append([]archivedRow{{Line: 0, Reason: "source header", Row: strings.Join(s.header, s.delimiter)}}, s.buffered...)
		for _, row := range rows {
			if err := pw.Write(row); err != nil {
				multiErr = multierror.Append(multiErr, exception.NewBatchError(moduleName,
					fmt.Sprintf("failed to write rejected row (line %d) to archive", row.Line), err, false))
				break
			}
		}

		// WriteStop can panic inside the library; convert that to an error.
		func() {
			defer func() {
				if r := recover(); r != nil {
					err := fmt.Errorf("parquet writer panicked during WriteStop: %v", r)
					multiErr = multierror.Append(multiErr, exception.NewBatchError(moduleName, err.Error(), err, false))
					logger.Errorf("Reject sink: recovered from panic during WriteStop: %v", r)
				}
			}()
			if err := pw.WriteStop(); err != nil {
				multiErr = multierror.Append(multiErr, exception.NewBatchError(moduleName,
					"failed to finalize reject archive", err, false))
			}
		}()
	}

	if err := out.Close(); err != nil {
		multiErr = multierror.Append(multiErr, exception.NewBatchError(moduleName,
			fmt.Sprintf("failed to close reject archive '%s'", s.path), err, false))
	}

	if multiErr == nil {
		logger.Infof("Archived %d rejected rows to '%s'.", len(s.buffered), s.path)
	}
	s.buffered = nil
	return multiErr
}

// parseCompression maps the configured codec name to the parquet constant.
func parseCompression(name string) (parquet.CompressionCodec, error) {
	switch strings.ToUpper(name) {
	case "SNAPPY":
		return parquet.CompressionCodec_SNAPPY, nil
	case "GZIP":
		return parquet.CompressionCodec_GZIP, nil
	case "NONE", "UNCOMPRESSED":
		return parquet.CompressionCodec_UNCOMPRESSED, nil
	default:
		return parquet.CompressionCodec_UNCOMPRESSED, fmt.Errorf("unknown compression codec: %s", name)
	}
}
