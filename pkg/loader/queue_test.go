package loader

import (
	"errors"
	"testing"

	"github.com/chronolab/chronopack/pkg/series"
)

// makeBatch builds a batch of n records whose target values start at base,
// so record identity survives splitting and merging.
func makeBatch(t *testing.T, base, n int) *series.Batch {
	t.Helper()
	buf := make([]float32, n*4)
	for i := 0; i < n; i++ {
		for j := 0; j < 4; j++ {
			buf[i*4+j] = float32(base + i)
		}
	}
	b, err := series.NewBatch(map[string]series.Array{
		series.FieldTarget: series.FromFloat32(buf, n, 4),
	})
	if err != nil {
		t.Fatalf("NewBatch() error: %v", err)
	}
	return b
}

func targetValue(t *testing.T, b *series.Batch, i int) float32 {
	t.Helper()
	target, ok := b.Field(series.FieldTarget)
	if !ok {
		t.Fatal("batch is missing target")
	}
	return target.Float32s()[i*4]
}

func TestQueueLen(t *testing.T) {
	q := NewQueue()
	if q.Len() != 0 {
		t.Errorf("empty queue Len() = %d, want 0", q.Len())
	}
	if err := q.Append(makeBatch(t, 0, 3)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := q.Append(makeBatch(t, 3, 2)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if q.Len() != 5 {
		t.Errorf("Len() = %d, want 5", q.Len())
	}
}

func TestQueuePopFront(t *testing.T) {
	q := NewQueue()
	if err := q.Append(makeBatch(t, 0, 3)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := q.Append(makeBatch(t, 3, 4)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	// Pop across the batch boundary.
	got, err := q.PopFront(5)
	if err != nil {
		t.Fatalf("PopFront(5) error: %v", err)
	}
	if got.Len() != 5 {
		t.Fatalf("popped batch Len() = %d, want 5", got.Len())
	}
	for i := 0; i < 5; i++ {
		if v := targetValue(t, got, i); v != float32(i) {
			t.Errorf("popped record %d = %v, want %d", i, v, i)
		}
	}
	if q.Len() != 2 {
		t.Errorf("remaining Len() = %d, want 2", q.Len())
	}

	// The remainder picks up where the pop ended.
	rest, err := q.PopFront(2)
	if err != nil {
		t.Fatalf("PopFront(2) error: %v", err)
	}
	if v := targetValue(t, rest, 0); v != 5 {
		t.Errorf("first remaining record = %v, want 5", v)
	}
}

func TestQueuePopFrontErrors(t *testing.T) {
	q := NewQueue()
	if err := q.Append(makeBatch(t, 0, 2)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	tests := []struct {
		name string
		n    int
	}{
		{"zero", 0},
		{"negative", -1},
		{"more than held", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := q.PopFront(tt.n); !errors.Is(err, series.ErrInsufficientData) {
				t.Errorf("PopFront(%d) error = %v, want ErrInsufficientData", tt.n, err)
			}
		})
	}
	if q.Len() != 2 {
		t.Errorf("failed pops changed Len() to %d, want 2", q.Len())
	}
}

func TestQueueAppendLeft(t *testing.T) {
	q := NewQueue()
	if err := q.Append(makeBatch(t, 10, 2)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := q.AppendLeft(makeBatch(t, 0, 2)); err != nil {
		t.Fatalf("AppendLeft() error: %v", err)
	}
	got, err := q.PopFront(4)
	if err != nil {
		t.Fatalf("PopFront(4) error: %v", err)
	}
	want := []float32{0, 1, 10, 11}
	for i, w := range want {
		if v := targetValue(t, got, i); v != w {
			t.Errorf("record %d = %v, want %v", i, v, w)
		}
	}
}

func TestQueueSchemaMismatch(t *testing.T) {
	q := NewQueue()
	if err := q.Append(makeBatch(t, 0, 2)); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	t.Run("different shape", func(t *testing.T) {
		other, err := series.NewBatch(map[string]series.Array{
			series.FieldTarget: series.FromFloat32(make([]float32, 6), 2, 3),
		})
		if err != nil {
			t.Fatalf("NewBatch() error: %v", err)
		}
		if err := q.Append(other); !errors.Is(err, series.ErrSchemaMismatch) {
			t.Errorf("Append() error = %v, want ErrSchemaMismatch", err)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		other, err := series.NewBatch(map[string]series.Array{
			"other": series.FromFloat32(make([]float32, 8), 2, 4),
		})
		if err != nil {
			t.Fatalf("NewBatch() error: %v", err)
		}
		if err := q.Append(other); !errors.Is(err, series.ErrSchemaMismatch) {
			t.Errorf("Append() error = %v, want ErrSchemaMismatch", err)
		}
	})

	t.Run("different dtype", func(t *testing.T) {
		other, err := series.NewBatch(map[string]series.Array{
			series.FieldTarget: series.FromInt64(make([]int64, 8), 2, 4),
		})
		if err != nil {
			t.Fatalf("NewBatch() error: %v", err)
		}
		if err := q.Append(other); !errors.Is(err, series.ErrSchemaMismatch) {
			t.Errorf("Append() error = %v, want ErrSchemaMismatch", err)
		}
	})
}
