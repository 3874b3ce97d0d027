package transform

import (
	"fmt"
	"math"

	"github.com/chronolab/chronopack/pkg/series"
)

// ImputeMethod replaces missing values (NaN) in a float32 buffer. The input
// is never modified; implementations return a new buffer.
type ImputeMethod interface {
	Impute(values []float32) []float32
}

// DummyValue replaces every missing value with a constant.
type DummyValue struct {
	Value float64
}

// Impute returns a copy with NaNs replaced by the constant.
func (m DummyValue) Impute(values []float32) []float32 {
	out := append([]float32(nil), values...)
	v := float32(m.Value)
	for i, x := range out {
		if math.IsNaN(float64(x)) {
			out[i] = v
		}
	}
	return out
}

// LastValue carries the last observed value forward. Missing values before
// the first observation take the first observed value; an all-missing
// sequence becomes zeros.
type LastValue struct{}

// Impute returns a forward-filled copy.
func (LastValue) Impute(values []float32) []float32 {
	out := append([]float32(nil), values...)

	first := -1
	for i, x := range out {
		if !math.IsNaN(float64(x)) {
			first = i
			break
		}
	}
	if first == -1 {
		for i := range out {
			out[i] = 0
		}
		return out
	}

	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	last := out[first]
	for i := first + 1; i < len(out); i++ {
		if math.IsNaN(float64(out[i])) {
			out[i] = last
		} else {
			last = out[i]
		}
	}
	return out
}

// Impute replaces missing values in the listed fields using Method.
type Impute struct {
	// Fields defaults to the target field.
	Fields []string
	Method ImputeMethod
}

// Apply imputes each listed field. Fields must be float32 sequences.
func (t Impute) Apply(rec series.Record) (series.Record, error) {
	fields := t.Fields
	if len(fields) == 0 {
		fields = []string{series.FieldTarget}
	}
	method := t.Method
	if method == nil {
		method = LastValue{}
	}

	out := rec.Clone()
	for _, name := range fields {
		arr, ok := rec[name]
		if !ok {
			return nil, fmt.Errorf("transform: impute: record is missing field %q", name)
		}
		if arr.DType() != series.Float32 {
			return nil, fmt.Errorf("transform: impute: field %q has dtype %s, want float32", name, arr.DType())
		}
		out[name] = series.FromFloat32(method.Impute(arr.Float32s()), arr.Shape()...)
	}
	return out, nil
}
