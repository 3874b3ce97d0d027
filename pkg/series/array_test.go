package series

import (
	"math"
	"testing"
)

func TestArrayLen(t *testing.T) {
	tests := []struct {
		name string
		arr  Array
		want int
	}{
		{"scalar", Float32Scalar(1.5), 1},
		{"int scalar", Int64Scalar(7), 1},
		{"vector", FromFloat32([]float32{1, 2, 3}, 3), 3},
		{"matrix", FromFloat32(make([]float32, 6), 3, 2), 3},
		{"empty", FromFloat32(nil, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.arr.Len(); got != tt.want {
				t.Errorf("Len() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	a := FromFloat32([]float32{0, 1, 2, 3, 4}, 5)

	got := a.Slice(1, 4)
	want := FromFloat32([]float32{1, 2, 3}, 3)
	if !got.Equal(want) {
		t.Errorf("Slice(1, 4) = %v, want %v", got.Float32s(), want.Float32s())
	}

	m := FromFloat32([]float32{0, 1, 2, 3, 4, 5}, 3, 2)
	got = m.Slice(1, 3)
	if ln := got.Len(); ln != 2 {
		t.Errorf("Slice(1, 3).Len() = %d, want 2", ln)
	}
	if got.Float32s()[0] != 2 {
		t.Errorf("Slice(1, 3) first element = %v, want 2", got.Float32s()[0])
	}
}

func TestSlicePanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Slice(0, 4) on length-3 array did not panic")
		}
	}()
	FromFloat32([]float32{1, 2, 3}, 3).Slice(0, 4)
}

func TestPadRight(t *testing.T) {
	a := FromFloat32([]float32{1, 2}, 2)

	got := a.PadRight(4, nil)
	want := FromFloat32([]float32{1, 2, 0, 0}, 4)
	if !got.Equal(want) {
		t.Errorf("PadRight(4) = %v, want %v", got.Float32s(), want.Float32s())
	}

	got = a.PadRight(4, ConstantFill(9))
	want = FromFloat32([]float32{1, 2, 9, 9}, 4)
	if !got.Equal(want) {
		t.Errorf("PadRight(4, 9) = %v, want %v", got.Float32s(), want.Float32s())
	}

	got = a.PadRight(2, nil)
	if !got.Equal(a) {
		t.Errorf("PadRight to current length changed the array: %v", got.Float32s())
	}
}

func TestPadLeft(t *testing.T) {
	a := FromFloat32([]float32{5, 6}, 2)
	got := a.PadLeft(2, 1)
	want := FromFloat32([]float32{1, 1, 5, 6}, 4)
	if !got.Equal(want) {
		t.Errorf("PadLeft(2, 1) = %v, want %v", got.Float32s(), want.Float32s())
	}
}

func TestConcat(t *testing.T) {
	a := FromFloat32([]float32{1, 2}, 2)
	b := FromFloat32([]float32{3}, 1)
	got := Concat(a, b)
	want := FromFloat32([]float32{1, 2, 3}, 3)
	if !got.Equal(want) {
		t.Errorf("Concat = %v, want %v", got.Float32s(), want.Float32s())
	}
}

func TestStackArrays(t *testing.T) {
	a := FromFloat32([]float32{1, 2}, 2)
	b := FromFloat32([]float32{3, 4}, 2)
	got, err := StackArrays([]Array{a, b})
	if err != nil {
		t.Fatalf("StackArrays() error: %v", err)
	}
	if !shapeEqual(got.Shape(), []int{2, 2}) {
		t.Errorf("StackArrays shape = %v, want [2 2]", got.Shape())
	}

	c := FromFloat32([]float32{5, 6, 7}, 3)
	if _, err := StackArrays([]Array{a, c}); err == nil {
		t.Error("StackArrays of mismatched shapes did not fail")
	}
}

func TestEqualNaN(t *testing.T) {
	nan := float32(math.NaN())
	a := FromFloat32([]float32{1, nan}, 2)
	b := FromFloat32([]float32{1, nan}, 2)
	if !a.Equal(b) {
		t.Error("arrays with matching NaN positions compare unequal")
	}
	c := FromFloat32([]float32{1, 2}, 2)
	if a.Equal(c) {
		t.Error("NaN compared equal to a number")
	}
}
