// Package header resolves a raw file header (or an explicit column-name
// list) into the ordered column specs consumed by every row transformation
// of a run.
package header

import (
	"strings"

	model "github.com/tigerroll/tanemaki/pkg/seeder/core/model"
	"github.com/tigerroll/tanemaki/pkg/seeder/support/util/exception"
)

const moduleName = "header"

// Resolve converts rawHeader into one ColumnSpec per position, applying the
// alias map and the skip prefix. It is a pure function of its inputs.
//
// A column whose name carries skipPrefix is marked Skip and keeps an empty
// target name. A column found in aliases is renamed; any other column maps
// to its name verbatim, whitespace included. Alias keys match the raw cell
// exactly.
//
// Resolving an empty header is a configuration error: the run has no
// columns to write. A one-column result is legal here; the caller decides
// whether to warn about a likely wrong delimiter.
func Resolve(rawHeader []string, aliases map[string]string, skipPrefix string) ([]model.ColumnSpec, error) {
	if len(rawHeader) == 0 {
		return nil, exception.NewConfigError(moduleName, "resolved header is empty, no columns to write", nil)
	}

	specs := make([]model.ColumnSpec, 0, len(rawHeader))
	for i, name := range rawHeader {
		if skipPrefix != "" && strings.HasPrefix(name, skipPrefix) {
			specs = append(specs, model.ColumnSpec{SourceIndex: i, Skip: true})
			continue
		}

		target := name
		if renamed, ok := aliases[name]; ok {
			target = renamed
		}
		specs = append(specs, model.ColumnSpec{SourceIndex: i, TargetName: target})
	}
	return specs, nil
}
