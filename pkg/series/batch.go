package series

import (
	"fmt"
	"sort"
)

// Batch is a group of records stacked along axis 0. Every field has the same
// axis-0 length, which equals the number of records; the invariant is
// enforced at construction. Batches support slicing along axis 0 only.
type Batch struct {
	fields map[string]Array
	length int
}

// NewBatch bundles stacked field arrays into a batch. All fields must share
// the same axis-0 length and none may be zero-dimensional.
func NewBatch(fields map[string]Array) (*Batch, error) {
	b := &Batch{fields: make(map[string]Array, len(fields))}
	first := true
	for name, arr := range fields {
		if arr.NDim() == 0 {
			return nil, fmt.Errorf("series: batch field %q is zero-dimensional", name)
		}
		if first {
			b.length = arr.Len()
			first = false
		} else if arr.Len() != b.length {
			return nil, fmt.Errorf("series: batch field %q has length %d, want %d", name, arr.Len(), b.length)
		}
		b.fields[name] = arr
	}
	return b, nil
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return b.length
}

// Field returns the stacked array for the named field.
func (b *Batch) Field(name string) (Array, bool) {
	arr, ok := b.fields[name]
	return arr, ok
}

// FieldNames returns the batch's field names in sorted order.
func (b *Batch) FieldNames() []string {
	names := make([]string, 0, len(b.fields))
	for name := range b.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithField returns a copy of the batch with an additional (or replaced)
// field. The array's axis-0 length must match the batch length.
func (b *Batch) WithField(name string, arr Array) (*Batch, error) {
	fields := make(map[string]Array, len(b.fields)+1)
	for k, v := range b.fields {
		fields[k] = v
	}
	fields[name] = arr
	return NewBatch(fields)
}

// Slice returns the record range [i, j) as a new batch sharing buffers.
func (b *Batch) Slice(i, j int) *Batch {
	out := &Batch{fields: make(map[string]Array, len(b.fields)), length: j - i}
	for name, arr := range b.fields {
		out.fields[name] = arr.Slice(i, j)
	}
	return out
}

// Stack stacks records into a batch. The field set is taken from the first
// record; a record missing one of those fields, or carrying an array of a
// different shape or dtype, is an error.
func Stack(records []Record) (*Batch, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("series: stack of no records")
	}
	fields := make(map[string]Array, len(records[0]))
	for name := range records[0] {
		arrs := make([]Array, len(records))
		for i, rec := range records {
			arr, ok := rec[name]
			if !ok {
				return nil, fmt.Errorf("series: record %d is missing field %q", i, name)
			}
			arrs[i] = arr
		}
		stacked, err := StackArrays(arrs)
		if err != nil {
			return nil, fmt.Errorf("series: stacking field %q: %w", name, err)
		}
		fields[name] = stacked
	}
	return NewBatch(fields)
}

// ConcatBatches concatenates batches record-wise. All batches must share the
// field set established by the first.
func ConcatBatches(batches []*Batch) (*Batch, error) {
	if len(batches) == 0 {
		return nil, fmt.Errorf("series: concat of no batches")
	}
	fields := make(map[string]Array, len(batches[0].fields))
	for name := range batches[0].fields {
		arrs := make([]Array, len(batches))
		for i, b := range batches {
			arr, ok := b.fields[name]
			if !ok {
				return nil, fmt.Errorf("series: batch %d is missing field %q", i, name)
			}
			arrs[i] = arr
		}
		fields[name] = Concat(arrs...)
	}
	return NewBatch(fields)
}
