package transform

import (
	"fmt"

	"github.com/chronolab/chronopack/pkg/series"
)

// ApplyOffset trims the listed sequence fields with slice semantics: a
// negative offset removes |offset| observations from the end, a positive
// offset keeps only the first offset observations. Training and validation
// splits of the same dataset are produced by trimming different amounts
// from the tail.
type ApplyOffset struct {
	Offset int
	// Fields defaults to the target field.
	Fields []string
}

// Apply trims each listed field along the time axis.
func (t ApplyOffset) Apply(rec series.Record) (series.Record, error) {
	if t.Offset == 0 {
		return rec, nil
	}
	fields := t.Fields
	if len(fields) == 0 {
		fields = []string{series.FieldTarget}
	}

	out := rec.Clone()
	for _, name := range fields {
		arr, ok := rec[name]
		if !ok {
			return nil, fmt.Errorf("transform: offset: record is missing field %q", name)
		}
		end := t.Offset
		if end < 0 {
			end += arr.Len()
		}
		if end < 0 {
			end = 0
		}
		if end > arr.Len() {
			end = arr.Len()
		}
		out[name] = arr.Slice(0, end)
	}
	return out, nil
}
