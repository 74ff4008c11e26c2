// Package transform converts raw delimited rows into insertable records:
// column skipping, default injection, timestamp stamping and one-way
// hashing of sensitive fields.
package transform

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	model "github.com/tigerroll/tanemaki/pkg/seeder/core/model"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
)

const moduleName = "transform"

// Timestamp columns stamped by the timestamp policy.
const (
	CreatedColumn = "created_at"
	UpdatedColumn = "updated_at"
)

// Transformer applies the per-row transformation rules of one run.
// It is constructed once and holds no per-row state.
type Transformer struct {
	defaults        map[string]interface{}
	hashFields      map[string]struct{}
	timestampPolicy bool

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewTransformer creates a Transformer.
//
// defaults supplies values for columns absent from the row; they never
// override a value taken from the file. hashFields lists record keys whose
// final value is replaced by a SHA-256 hex digest. When timestampPolicy is
// false the timestamp columns are set to an explicit NULL rather than
// omitted, so storage receives an intentional null, not a missing column.
func NewTransformer(defaults map[string]interface{}, hashFields []string, timestampPolicy bool) *Transformer {
	hashes := make(map[string]struct{}, len(hashFields))
	for _, f := range hashFields {
		hashes[f] = struct{}{}
	}
	return &Transformer{
		defaults:        defaults,
		hashFields:      hashes,
		timestampPolicy: timestampPolicy,
		now:             time.Now,
	}
}

// Transform converts one raw row into a Record using the resolved specs.
//
// The field at position i maps to specs[i]; fields of skipped columns are
// dropped. A row whose length differs from the spec list fails with a
// skippable error: the caller drops the row and continues the run. A nil
// record (with nil error) means the row produced nothing to insert.
func (t *Transformer) Transform(row []string, specs []model.ColumnSpec) (model.Record, error) {
	if len(row) != len(specs) {
		return nil, exception.NewBatchError(moduleName,
			fmt.Sprintf("row has %d fields, header resolved %d columns", len(row), len(specs)), nil, true)
	}

	rec := model.NewRecord()
	for i, field := range row {
		spec := specs[i]
		if spec.Skip {
			continue
		}
		rec[spec.TargetName] = field
	}

	if len(rec) == 0 {
		return nil, nil
	}

	for key, value := range t.defaults {
		if !rec.Has(key) {
			rec[key] = value
		}
	}

	if t.timestampPolicy {
		now := t.now()
		if !rec.Has(CreatedColumn) {
			rec[CreatedColumn] = now
		}
		if !rec.Has(UpdatedColumn) {
			rec[UpdatedColumn] = now
		}
	} else {
		rec[CreatedColumn] = nil
		rec[UpdatedColumn] = nil
	}

	// Hashing runs last so a default landing in a hashable field is hashed too.
	for field := range t.hashFields {
		value, ok := rec[field]
		if !ok || value == nil {
			continue
		}
		rec[field] = hashValue(value)
	}

	return rec, nil
}

// hashValue returns the SHA-256 hex digest of the value's string form.
func hashValue(value interface{}) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%v", value)))
	return hex.EncodeToString(sum[:])
}
