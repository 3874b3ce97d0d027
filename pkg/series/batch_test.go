package series

import "testing"

func rec(targetLen int) Record {
	buf := make([]float32, targetLen)
	for i := range buf {
		buf[i] = float32(i)
	}
	return Record{
		FieldTarget: FromFloat32(buf, targetLen),
		FieldStart:  Int64Scalar(0),
	}
}

func TestNewBatchValidation(t *testing.T) {
	tests := []struct {
		name    string
		fields  map[string]Array
		wantErr bool
	}{
		{
			name: "matching lengths",
			fields: map[string]Array{
				"a": FromFloat32(make([]float32, 6), 3, 2),
				"b": FromInt64(make([]int64, 3), 3),
			},
		},
		{
			name: "length mismatch",
			fields: map[string]Array{
				"a": FromFloat32(make([]float32, 3), 3),
				"b": FromFloat32(make([]float32, 2), 2),
			},
			wantErr: true,
		},
		{
			name: "zero-dimensional field",
			fields: map[string]Array{
				"a": Float32Scalar(1),
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBatch(tt.fields)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewBatch() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStackRecords(t *testing.T) {
	records := []Record{rec(4), rec(4), rec(4)}
	b, err := Stack(records)
	if err != nil {
		t.Fatalf("Stack() error: %v", err)
	}
	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3", b.Len())
	}
	target, ok := b.Field(FieldTarget)
	if !ok {
		t.Fatal("stacked batch is missing the target field")
	}
	if !shapeEqual(target.Shape(), []int{3, 4}) {
		t.Errorf("target shape = %v, want [3 4]", target.Shape())
	}
	start, _ := b.Field(FieldStart)
	if !shapeEqual(start.Shape(), []int{3}) {
		t.Errorf("scalar field stacked to shape %v, want [3]", start.Shape())
	}
}

func TestStackMissingField(t *testing.T) {
	a := rec(4)
	b := Record{FieldTarget: FromFloat32(make([]float32, 4), 4)}
	if _, err := Stack([]Record{a, b}); err == nil {
		t.Error("Stack with a missing field did not fail")
	}
}

func TestBatchSlice(t *testing.T) {
	b, err := Stack([]Record{rec(4), rec(4), rec(4), rec(4)})
	if err != nil {
		t.Fatalf("Stack() error: %v", err)
	}
	s := b.Slice(1, 3)
	if s.Len() != 2 {
		t.Errorf("Slice(1, 3).Len() = %d, want 2", s.Len())
	}
	target, _ := s.Field(FieldTarget)
	if !shapeEqual(target.Shape(), []int{2, 4}) {
		t.Errorf("sliced target shape = %v, want [2 4]", target.Shape())
	}
}

func TestConcatBatches(t *testing.T) {
	a, _ := Stack([]Record{rec(4), rec(4)})
	b, _ := Stack([]Record{rec(4)})
	got, err := ConcatBatches([]*Batch{a, b})
	if err != nil {
		t.Fatalf("ConcatBatches() error: %v", err)
	}
	if got.Len() != 3 {
		t.Errorf("Len() = %d, want 3", got.Len())
	}
}
