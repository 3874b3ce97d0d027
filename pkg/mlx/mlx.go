// Package mlx bridges batches into gomlx tensors so a DataLoader can feed a
// gomlx training loop directly.
package mlx

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/chronolab/chronopack/pkg/loader"
	"github.com/chronolab/chronopack/pkg/series"
)

// ToTensor converts an array into a gomlx tensor. Arrays of up to three
// dimensions are supported, which covers scalar, sequence and batched
// sequence fields.
func ToTensor(a series.Array) (*tensors.Tensor, error) {
	v, err := nested(a)
	if err != nil {
		return nil, err
	}
	return tensors.FromAnyValue(v), nil
}

// nested rebuilds the flat buffer as nested slices, the form
// tensors.FromAnyValue accepts.
func nested(a series.Array) (any, error) {
	shape := a.Shape()
	switch a.DType() {
	case series.Float32:
		return nestFloat32(a.Float32s(), shape)
	case series.Int64:
		return nestInt64(a.Int64s(), shape)
	default:
		return nil, fmt.Errorf("mlx: unsupported dtype %s", a.DType())
	}
}

func nestFloat32(buf []float32, shape []int) (any, error) {
	switch len(shape) {
	case 0:
		return buf[0], nil
	case 1:
		return buf, nil
	case 2:
		out := make([][]float32, shape[0])
		stride := shape[1]
		for i := range out {
			out[i] = buf[i*stride : (i+1)*stride]
		}
		return out, nil
	case 3:
		out := make([][][]float32, shape[0])
		stride := shape[1] * shape[2]
		for i := range out {
			rows := make([][]float32, shape[1])
			row := buf[i*stride : (i+1)*stride]
			for j := range rows {
				rows[j] = row[j*shape[2] : (j+1)*shape[2]]
			}
			out[i] = rows
		}
		return out, nil
	default:
		return nil, fmt.Errorf("mlx: rank %d arrays are not supported", len(shape))
	}
}

func nestInt64(buf []int64, shape []int) (any, error) {
	switch len(shape) {
	case 0:
		return buf[0], nil
	case 1:
		return buf, nil
	case 2:
		out := make([][]int64, shape[0])
		stride := shape[1]
		for i := range out {
			out[i] = buf[i*stride : (i+1)*stride]
		}
		return out, nil
	case 3:
		out := make([][][]int64, shape[0])
		stride := shape[1] * shape[2]
		for i := range out {
			rows := make([][]int64, shape[1])
			row := buf[i*stride : (i+1)*stride]
			for j := range rows {
				rows[j] = row[j*shape[2] : (j+1)*shape[2]]
			}
			out[i] = rows
		}
		return out, nil
	default:
		return nil, fmt.Errorf("mlx: rank %d arrays are not supported", len(shape))
	}
}

// Dataset adapts a DataLoader to gomlx's training dataset contract: Yield
// returns the next batch split into input and label tensors and io.EOF at
// epoch end; Reset starts the next epoch.
type Dataset struct {
	name        string
	dl          *loader.DataLoader
	inputFields []string
	labelFields []string

	epoch *loader.Epoch
}

// NewDataset wraps dl. inputFields and labelFields name the batch fields to
// emit, in order, as input and label tensors.
func NewDataset(name string, dl *loader.DataLoader, inputFields, labelFields []string) (*Dataset, error) {
	if len(inputFields) == 0 {
		return nil, fmt.Errorf("%w: at least one input field is required", series.ErrInvalidConfig)
	}
	return &Dataset{
		name:        name,
		dl:          dl,
		inputFields: inputFields,
		labelFields: labelFields,
	}, nil
}

// Name identifies the dataset in training logs.
func (d *Dataset) Name() string { return d.name }

// Reset starts a new epoch.
func (d *Dataset) Reset() {
	d.epoch = nil
}

// Yield returns the next batch as tensors. It returns io.EOF when the
// current epoch is exhausted.
func (d *Dataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.epoch == nil {
		d.epoch, err = d.dl.Iter()
		if err != nil {
			return nil, nil, nil, err
		}
	}
	b, err := d.epoch.Next()
	if err == io.EOF {
		d.epoch = nil
		return nil, nil, nil, io.EOF
	}
	if err != nil {
		return nil, nil, nil, err
	}

	inputs, err = fieldTensors(b, d.inputFields)
	if err != nil {
		return nil, nil, nil, err
	}
	labels, err = fieldTensors(b, d.labelFields)
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, inputs, labels, nil
}

func fieldTensors(b *series.Batch, names []string) ([]*tensors.Tensor, error) {
	out := make([]*tensors.Tensor, 0, len(names))
	for _, name := range names {
		arr, ok := b.Field(name)
		if !ok {
			return nil, fmt.Errorf("mlx: batch has no field %q: %w", name, series.ErrSchemaMismatch)
		}
		t, err := ToTensor(arr)
		if err != nil {
			return nil, fmt.Errorf("mlx: field %q: %w", name, err)
		}
		out = append(out, t)
	}
	return out, nil
}
