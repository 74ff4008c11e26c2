// Package reject_test provides unit tests for the rejected-row archive.
package reject_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tigerroll/tanemaki/pkg/seeder/reject"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
)

func TestParquetSink_WritesArchiveOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rejects.parquet")
	sink := reject.NewParquetSink(path, ";", "SNAPPY")
	ctx := context.Background()

	assert.NoError(t, sink.Open(ctx, []string{"id", "name"}))
	assert.NoError(t, sink.Append(ctx, 3, "row has 3 fields, header resolved 2 columns", []string{"3", "carol", "stray"}))
	assert.NoError(t, sink.Append(ctx, 7, "row has 1 fields, header resolved 2 columns", []string{"7"}))
	assert.NoError(t, sink.Close(ctx))

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestParquetSink_NoRejectsProducesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rejects.parquet")
	sink := reject.NewParquetSink(path, ";", "SNAPPY")
	ctx := context.Background()

	assert.NoError(t, sink.Open(ctx, []string{"id"}))
	assert.NoError(t, sink.Close(ctx))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestParquetSink_EmptyPathIsConfigError(t *testing.T) {
	sink := reject.NewParquetSink("", ";", "SNAPPY")

	err := sink.Open(context.Background(), []string{"id"})
	assert.Error(t, err)
	assert.True(t, exception.IsConfigError(err))
}

func TestParquetSink_UnknownCompressionIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rejects.parquet")
	sink := reject.NewParquetSink(path, ";", "ZSTD-INVALID")

	err := sink.Open(context.Background(), []string{"id"})
	assert.Error(t, err)
	assert.True(t, exception.IsConfigError(err))
}

func TestParquetSink_GzipCodec(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rejects.parquet")
	sink := reject.NewParquetSink(path, ";", "GZIP")
	ctx := context.Background()

	assert.NoError(t, sink.Open(ctx, []string{"id"}))
	assert.NoError(t, sink.Append(ctx, 1, "bad row", []string{"1", "extra"}))
	assert.NoError(t, sink.Close(ctx))

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestNoopSink_DiscardsEverything(t *testing.T) {
	sink := reject.NewNoopSink()
	ctx := context.Background()

	assert.NoError(t, sink.Open(ctx, []string{"id"}))
	assert.NoError(t, sink.Append(ctx, 1, "whatever", []string{"1"}))
	assert.NoError(t, sink.Close(ctx))
}
