package transform

import (
	"fmt"
	"math"

	"github.com/chronolab/chronopack/pkg/series"
)

// PadToMinLength left-pads the listed sequence fields so that each is at
// least MinLength long. The default pad value is NaN, so a later
// AddObservedValues marks padded positions as missing and Impute fills them.
type PadToMinLength struct {
	MinLength int
	// Fields defaults to the target field.
	Fields []string
	// Value overrides the NaN pad value when non-nil.
	Value *float64
}

// Apply pads each listed field at the front of the time axis.
func (t PadToMinLength) Apply(rec series.Record) (series.Record, error) {
	fields := t.Fields
	if len(fields) == 0 {
		fields = []string{series.FieldTarget}
	}
	value := math.NaN()
	if t.Value != nil {
		value = *t.Value
	}

	out := rec.Clone()
	for _, name := range fields {
		arr, ok := rec[name]
		if !ok {
			return nil, fmt.Errorf("transform: pad: record is missing field %q", name)
		}
		if arr.Len() < t.MinLength {
			out[name] = arr.PadLeft(t.MinLength-arr.Len(), value)
		}
	}
	return out, nil
}
