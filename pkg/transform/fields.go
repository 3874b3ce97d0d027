package transform

import (
	"fmt"

	"github.com/chronolab/chronopack/pkg/series"
)

// SelectFields keeps only the listed fields.
type SelectFields struct {
	Fields []string
	// AllowMissing skips absent fields instead of failing.
	AllowMissing bool
}

// Apply returns a record holding only the listed fields.
func (t SelectFields) Apply(rec series.Record) (series.Record, error) {
	out := make(series.Record, len(t.Fields))
	for _, name := range t.Fields {
		arr, ok := rec[name]
		if !ok {
			if t.AllowMissing {
				continue
			}
			return nil, fmt.Errorf("transform: select: record is missing field %q", name)
		}
		out[name] = arr
	}
	return out, nil
}

// RemoveFields drops the listed fields if present.
type RemoveFields struct {
	Fields []string
}

// Apply returns a record without the listed fields.
func (t RemoveFields) Apply(rec series.Record) (series.Record, error) {
	out := rec.Clone()
	for _, name := range t.Fields {
		delete(out, name)
	}
	return out, nil
}

// SetFieldIfAbsent adds a field with a fixed value when the record does not
// already carry it.
type SetFieldIfAbsent struct {
	Field string
	Value series.Array
}

// Apply sets the field unless it is present.
func (t SetFieldIfAbsent) Apply(rec series.Record) (series.Record, error) {
	if rec.Has(t.Field) {
		return rec, nil
	}
	out := rec.Clone()
	out[t.Field] = t.Value
	return out, nil
}
