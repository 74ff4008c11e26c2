// Package metrics_test provides unit tests for the metrics recorders.
package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/tigerroll/tanemaki/pkg/seeder/metrics"
)

func TestPrometheusRecorder_CountsRows(t *testing.T) {
	r := metrics.NewPrometheusRecorder()

	r.RecordRowRead("users")
	r.RecordRowRead("users")
	r.RecordRowRejected("users")
	r.RecordChunkFlushed("users", 50)
	r.RecordChunkFlushed("users", 3)

	// One series each, under the respective metric families.
	for _, name := range []string{
		"seed_rows_read_total",
		"seed_rows_rejected_total",
		"seed_rows_inserted_total",
		"seed_chunks_flushed_total",
	} {
		count, err := testutil.GatherAndCount(r.Registry(), name)
		assert.NoError(t, err)
		assert.Equal(t, 1, count, "metric %s", name)
	}
}

func TestPrometheusRecorder_RunStatus(t *testing.T) {
	r := metrics.NewPrometheusRecorder()

	r.RecordRunCompleted("users", "COMPLETED", 2*time.Second)
	r.RecordRunCompleted("users", "FAILED", time.Second)

	count, err := testutil.GatherAndCount(r.Registry(), "seed_run_status_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNoopRecorder_DoesNothing(t *testing.T) {
	r := metrics.NewNoopRecorder()
	assert.NotPanics(t, func() {
		r.RecordRowRead("users")
		r.RecordRowRejected("users")
		r.RecordChunkFlushed("users", 10)
		r.RecordRunCompleted("users", "COMPLETED", time.Second)
	})
}
