package series

import (
	"fmt"
	"math"
)

// DType identifies the element type of an Array.
type DType int

const (
	// Float32 holds 32-bit floating point elements.
	Float32 DType = iota
	// Int64 holds 64-bit signed integer elements.
	Int64
)

// String returns the dtype name.
func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Int64:
		return "int64"
	default:
		return fmt.Sprintf("dtype(%d)", int(d))
	}
}

// FillFunc produces an array of the given shape and dtype, filled with a
// caller-defined constant. Zeros is the default used throughout.
type FillFunc func(shape []int, dtype DType) Array

// Array is a dense numeric array stored as a flat row-major buffer with an
// explicit shape. A zero-dimensional array represents a scalar.
//
// Arrays are immutable by convention: operations return new arrays and never
// modify their receiver. Buffer accessors expose the underlying storage for
// read paths; callers that need to mutate should Clone first.
type Array struct {
	dtype DType
	shape []int
	f32   []float32
	i64   []int64
}

func numel(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			panic(fmt.Sprintf("series: negative dimension %d in shape %v", d, shape))
		}
		n *= d
	}
	return n
}

// FromFloat32 wraps a float32 buffer as an array with the given shape.
// It panics if the buffer size does not match the shape, mirroring the
// convention of numeric Go libraries for constructor misuse.
func FromFloat32(data []float32, shape ...int) Array {
	if len(data) != numel(shape) {
		panic(fmt.Sprintf("series: buffer size %d does not match shape %v", len(data), shape))
	}
	return Array{dtype: Float32, shape: append([]int(nil), shape...), f32: data}
}

// FromInt64 wraps an int64 buffer as an array with the given shape.
func FromInt64(data []int64, shape ...int) Array {
	if len(data) != numel(shape) {
		panic(fmt.Sprintf("series: buffer size %d does not match shape %v", len(data), shape))
	}
	return Array{dtype: Int64, shape: append([]int(nil), shape...), i64: data}
}

// Float32Scalar returns a zero-dimensional float32 array.
func Float32Scalar(v float32) Array {
	return FromFloat32([]float32{v})
}

// Int64Scalar returns a zero-dimensional int64 array.
func Int64Scalar(v int64) Array {
	return FromInt64([]int64{v})
}

// Zeros returns a zero-filled array of the given shape and dtype.
// It satisfies FillFunc and is the default padding fill.
func Zeros(shape []int, dtype DType) Array {
	return Full(shape, dtype, 0)
}

// Full returns an array of the given shape and dtype filled with value.
func Full(shape []int, dtype DType, value float64) Array {
	n := numel(shape)
	switch dtype {
	case Int64:
		buf := make([]int64, n)
		if value != 0 {
			for i := range buf {
				buf[i] = int64(value)
			}
		}
		return FromInt64(buf, shape...)
	default:
		buf := make([]float32, n)
		if value != 0 {
			v := float32(value)
			for i := range buf {
				buf[i] = v
			}
		}
		return FromFloat32(buf, shape...)
	}
}

// ConstantFill returns a FillFunc producing arrays filled with value.
func ConstantFill(value float64) FillFunc {
	return func(shape []int, dtype DType) Array {
		return Full(shape, dtype, value)
	}
}

// DType returns the element type.
func (a Array) DType() DType { return a.dtype }

// Shape returns a copy of the array's shape.
func (a Array) Shape() []int { return append([]int(nil), a.shape...) }

// NDim returns the number of dimensions; zero for scalars.
func (a Array) NDim() int { return len(a.shape) }

// Size returns the total number of elements.
func (a Array) Size() int { return numel(a.shape) }

// Len returns the size of axis 0. Scalars report length 1 so that stacking
// and schema code can treat them uniformly.
func (a Array) Len() int {
	if len(a.shape) == 0 {
		return 1
	}
	return a.shape[0]
}

// ElemShape returns the shape excluding axis 0; empty for scalars and
// one-dimensional arrays.
func (a Array) ElemShape() []int {
	if len(a.shape) == 0 {
		return nil
	}
	return append([]int(nil), a.shape[1:]...)
}

// rowSize is the number of elements per axis-0 step.
func (a Array) rowSize() int {
	if len(a.shape) == 0 {
		return 1
	}
	return numel(a.shape[1:])
}

// Float32s returns the underlying float32 buffer. Callers must not modify
// it; use Clone for a mutable copy. Panics for non-float32 arrays.
func (a Array) Float32s() []float32 {
	if a.dtype != Float32 {
		panic(fmt.Sprintf("series: Float32s called on %s array", a.dtype))
	}
	return a.f32
}

// Int64s returns the underlying int64 buffer. Callers must not modify it.
// Panics for non-int64 arrays.
func (a Array) Int64s() []int64 {
	if a.dtype != Int64 {
		panic(fmt.Sprintf("series: Int64s called on %s array", a.dtype))
	}
	return a.i64
}

// FloatAt returns the flat element at index i as a float64, for either dtype.
func (a Array) FloatAt(i int) float64 {
	if a.dtype == Int64 {
		return float64(a.i64[i])
	}
	return float64(a.f32[i])
}

// IntAt returns the flat element at index i as an int64, for either dtype.
func (a Array) IntAt(i int) int64 {
	if a.dtype == Int64 {
		return a.i64[i]
	}
	return int64(a.f32[i])
}

// Clone returns a deep copy of the array.
func (a Array) Clone() Array {
	out := Array{dtype: a.dtype, shape: append([]int(nil), a.shape...)}
	if a.f32 != nil {
		out.f32 = append([]float32(nil), a.f32...)
	}
	if a.i64 != nil {
		out.i64 = append([]int64(nil), a.i64...)
	}
	return out
}

// Slice returns the sub-array [i, j) along axis 0. The result shares the
// receiver's buffer. Panics on out-of-range bounds or scalar receivers.
func (a Array) Slice(i, j int) Array {
	if len(a.shape) == 0 {
		panic("series: Slice on zero-dimensional array")
	}
	if i < 0 || j < i || j > a.shape[0] {
		panic(fmt.Sprintf("series: slice bounds [%d:%d] out of range for axis length %d", i, j, a.shape[0]))
	}
	row := a.rowSize()
	shape := append([]int{j - i}, a.shape[1:]...)
	out := Array{dtype: a.dtype, shape: shape}
	if a.dtype == Int64 {
		out.i64 = a.i64[i*row : j*row]
	} else {
		out.f32 = a.f32[i*row : j*row]
	}
	return out
}

// Concat concatenates arrays along axis 0. All arrays must share dtype and
// trailing dimensions. Panics on mismatch; callers validate shapes through
// schema or length checks before concatenating.
func Concat(arrs ...Array) Array {
	if len(arrs) == 0 {
		panic("series: Concat of no arrays")
	}
	first := arrs[0]
	if first.NDim() == 0 {
		panic("series: Concat of zero-dimensional arrays")
	}
	total := 0
	for _, a := range arrs {
		if a.dtype != first.dtype || !shapeEqual(a.shape[1:], first.shape[1:]) {
			panic(fmt.Sprintf("series: Concat shape/dtype mismatch: %v %s vs %v %s",
				a.shape, a.dtype, first.shape, first.dtype))
		}
		total += a.shape[0]
	}
	shape := append([]int{total}, first.shape[1:]...)
	if first.dtype == Int64 {
		buf := make([]int64, 0, numel(shape))
		for _, a := range arrs {
			buf = append(buf, a.i64...)
		}
		return FromInt64(buf, shape...)
	}
	buf := make([]float32, 0, numel(shape))
	for _, a := range arrs {
		buf = append(buf, a.f32...)
	}
	return FromFloat32(buf, shape...)
}

// PadRight extends the array along axis 0 to total using fill. Returns the
// receiver unchanged if it is already at least total long.
func (a Array) PadRight(total int, fill FillFunc) Array {
	if fill == nil {
		fill = Zeros
	}
	if a.Len() >= total {
		return a
	}
	padShape := append([]int{total - a.Len()}, a.shape[1:]...)
	return Concat(a, fill(padShape, a.dtype))
}

// PadLeft prepends n constant rows along axis 0.
func (a Array) PadLeft(n int, value float64) Array {
	if n <= 0 {
		return a
	}
	padShape := append([]int{n}, a.shape[1:]...)
	return Concat(Full(padShape, a.dtype, value), a)
}

// StackArrays stacks same-shaped arrays along a new leading axis.
func StackArrays(arrs []Array) (Array, error) {
	if len(arrs) == 0 {
		return Array{}, fmt.Errorf("series: stack of no arrays")
	}
	first := arrs[0]
	for i, a := range arrs[1:] {
		if a.dtype != first.dtype || !shapeEqual(a.shape, first.shape) {
			return Array{}, fmt.Errorf("series: stack shape/dtype mismatch at index %d: %v %s vs %v %s",
				i+1, a.shape, a.dtype, first.shape, first.dtype)
		}
	}
	shape := append([]int{len(arrs)}, first.shape...)
	if first.dtype == Int64 {
		buf := make([]int64, 0, numel(shape))
		for _, a := range arrs {
			buf = append(buf, a.i64...)
		}
		return FromInt64(buf, shape...), nil
	}
	buf := make([]float32, 0, numel(shape))
	for _, a := range arrs {
		buf = append(buf, a.f32...)
	}
	return FromFloat32(buf, shape...), nil
}

// Equal reports whether two arrays have identical dtype, shape and elements.
// NaNs compare equal to NaNs so that missing-value fixtures round-trip.
func (a Array) Equal(b Array) bool {
	if a.dtype != b.dtype || !shapeEqual(a.shape, b.shape) {
		return false
	}
	if a.dtype == Int64 {
		for i := range a.i64 {
			if a.i64[i] != b.i64[i] {
				return false
			}
		}
		return true
	}
	for i := range a.f32 {
		x, y := float64(a.f32[i]), float64(b.f32[i])
		if x != y && !(math.IsNaN(x) && math.IsNaN(y)) {
			return false
		}
	}
	return true
}

func shapeEqual(a, b []int) bool {
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
