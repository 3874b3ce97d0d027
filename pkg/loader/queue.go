package loader

import (
	"fmt"

	"github.com/chronolab/chronopack/pkg/series"
)

// Metadata describes one queue field: its per-record shape (excluding the
// batch axis) and element type.
type Metadata struct {
	Shape []int
	DType series.DType
}

// Schema maps field names to their metadata. It is established by the first
// batch appended to a queue and immutable afterwards.
type Schema map[string]Metadata

// Queue is a length-tracked holding area for batches of same-shaped records.
// It buffers whole batches and re-slices them on demand, so fixed-size
// batches can be cut across upstream batch boundaries.
//
// A Queue is owned by a single iterator and is not safe for concurrent use.
type Queue struct {
	batches []*series.Batch
	total   int
	schema  Schema
}

// NewQueue creates an empty queue with no schema.
func NewQueue() *Queue {
	return &Queue{}
}

// Len returns the total record count across all held batches.
func (q *Queue) Len() int { return q.total }

// Schema returns the established schema, or nil before the first append.
func (q *Queue) Schema() Schema { return q.schema }

// checkSchema validates the batch against the queue's schema, establishing
// it from the batch if unset.
func (q *Queue) checkSchema(b *series.Batch) error {
	if q.schema == nil {
		schema := make(Schema, len(b.FieldNames()))
		for _, name := range b.FieldNames() {
			arr, _ := b.Field(name)
			schema[name] = Metadata{Shape: arr.ElemShape(), DType: arr.DType()}
		}
		q.schema = schema
		return nil
	}
	for name, md := range q.schema {
		arr, ok := b.Field(name)
		if !ok {
			return fmt.Errorf("loader: batch is missing field %q: %w", name, series.ErrSchemaMismatch)
		}
		if arr.DType() != md.DType {
			return fmt.Errorf("loader: field %q has dtype %s, want %s: %w",
				name, arr.DType(), md.DType, series.ErrSchemaMismatch)
		}
		if !sameShape(arr.ElemShape(), md.Shape) {
			return fmt.Errorf("loader: field %q has shape %v, want %v: %w",
				name, arr.ElemShape(), md.Shape, series.ErrSchemaMismatch)
		}
	}
	return nil
}

// Append adds a batch to the back of the queue.
func (q *Queue) Append(b *series.Batch) error {
	if err := q.checkSchema(b); err != nil {
		return err
	}
	q.batches = append(q.batches, b)
	q.total += b.Len()
	return nil
}

// AppendLeft adds a batch to the front of the queue.
func (q *Queue) AppendLeft(b *series.Batch) error {
	if err := q.checkSchema(b); err != nil {
		return err
	}
	q.batches = append([]*series.Batch{b}, q.batches...)
	q.total += b.Len()
	return nil
}

// PopFront removes exactly n records from the front, splitting a batch when
// n falls inside it and re-inserting the remainder. The removed records are
// returned merged into one batch, preserving their original order.
func (q *Queue) PopFront(n int) (*series.Batch, error) {
	if n <= 0 || n > q.total {
		return nil, fmt.Errorf("loader: cannot pop %d records from queue of length %d: %w",
			n, q.total, series.ErrInsufficientData)
	}

	var out []*series.Batch
	need := n
	for need > 0 {
		first := q.batches[0]
		q.batches = q.batches[1:]
		q.total -= first.Len()

		if first.Len() > need {
			rest := first.Slice(need, first.Len())
			q.batches = append([]*series.Batch{rest}, q.batches...)
			q.total += rest.Len()
			first = first.Slice(0, need)
		}
		out = append(out, first)
		need -= first.Len()
	}

	if len(out) == 1 {
		return out[0], nil
	}
	merged, err := series.ConcatBatches(out)
	if err != nil {
		return nil, fmt.Errorf("loader: merging popped batches: %w", err)
	}
	return merged, nil
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
