package transform

import (
	"fmt"
	"math"

	"github.com/chronolab/chronopack/pkg/series"
)

// AddObservedValues adds an indicator field that is 1 where the target was
// observed and 0 where it is missing (NaN). Missing values themselves are
// left in place for a subsequent Impute transform.
type AddObservedValues struct {
	// TargetField defaults to series.FieldTarget.
	TargetField string
	// OutputField defaults to series.FieldObserved.
	OutputField string
}

// Apply computes the indicator over the target field.
func (t AddObservedValues) Apply(rec series.Record) (series.Record, error) {
	targetField := t.TargetField
	if targetField == "" {
		targetField = series.FieldTarget
	}
	outputField := t.OutputField
	if outputField == "" {
		outputField = series.FieldObserved
	}

	target, ok := rec[targetField]
	if !ok {
		return nil, fmt.Errorf("transform: observed: record is missing field %q", targetField)
	}
	if target.DType() != series.Float32 {
		return nil, fmt.Errorf("transform: observed: field %q has dtype %s, want float32", targetField, target.DType())
	}

	values := target.Float32s()
	indicator := make([]float32, len(values))
	for i, v := range values {
		if !math.IsNaN(float64(v)) {
			indicator[i] = 1
		}
	}

	out := rec.Clone()
	out[outputField] = series.FromFloat32(indicator, target.Shape()...)
	return out, nil
}
