// Package dataset provides upstream record sources: indexable collections
// of time series records with integer random access, optional one-time
// subsampling, and sampling weights for weighted index draws.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/chronolab/chronopack/pkg/series"
)

// Source is an indexable collection of records. Implementations load
// records on demand; the loader treats a Source as an opaque store.
type Source interface {
	// Len returns the number of available records.
	Len() int

	// At returns the record at index i.
	At(i int) (series.Record, error)

	// Select returns the records at the given indices, in order.
	Select(indices []int) ([]series.Record, error)
}

// InMemory is a Source over records already held in memory. It is the
// simplest Source and the one used by tests.
type InMemory struct {
	records []series.Record
}

// NewInMemory wraps records as a Source.
func NewInMemory(records []series.Record) *InMemory {
	return &InMemory{records: records}
}

// Len returns the record count.
func (m *InMemory) Len() int { return len(m.records) }

// At returns record i.
func (m *InMemory) At(i int) (series.Record, error) {
	if i < 0 || i >= len(m.records) {
		return nil, fmt.Errorf("dataset: index %d out of range [0, %d)", i, len(m.records))
	}
	return m.records[i], nil
}

// Select returns the records at the given indices.
func (m *InMemory) Select(indices []int) ([]series.Record, error) {
	return selectFrom(m, indices)
}

// selectFrom implements Select in terms of At.
func selectFrom(src Source, indices []int) ([]series.Record, error) {
	out := make([]series.Record, len(indices))
	for i, idx := range indices {
		rec, err := src.At(idx)
		if err != nil {
			return nil, err
		}
		out[i] = rec
	}
	return out, nil
}

// Subset restricts a Source to a fixed set of indices. The selection is made
// once at construction; the subset is immutable afterwards.
type Subset struct {
	src     Source
	indices []int
}

// NewSubset creates a Subset over the given indices of src.
func NewSubset(src Source, indices []int) (*Subset, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= src.Len() {
			return nil, fmt.Errorf("dataset: subset index %d out of range [0, %d)", idx, src.Len())
		}
	}
	return &Subset{src: src, indices: append([]int(nil), indices...)}, nil
}

// Len returns the subset size.
func (s *Subset) Len() int { return len(s.indices) }

// Indices returns the underlying source indices, in subset order.
func (s *Subset) Indices() []int {
	return append([]int(nil), s.indices...)
}

// At returns the i-th record of the subset.
func (s *Subset) At(i int) (series.Record, error) {
	if i < 0 || i >= len(s.indices) {
		return nil, fmt.Errorf("dataset: index %d out of range [0, %d)", i, len(s.indices))
	}
	return s.src.At(s.indices[i])
}

// Select returns the records at the given subset indices.
func (s *Subset) Select(indices []int) ([]series.Record, error) {
	return selectFrom(s, indices)
}

// Limit subsamples src down to at most n records, chosen uniformly without
// replacement using the supplied generator. The generator is explicit so
// subsampling never depends on process-wide random state.
func Limit(src Source, n int, rnd *rand.Rand) (Source, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", series.ErrInvalidConfig, n)
	}
	if n >= src.Len() {
		return src, nil
	}
	perm := rnd.Perm(src.Len())
	return NewSubset(src, perm[:n])
}

// Fraction subsamples src down to a fraction in (0, 1] of its records.
func Fraction(src Source, frac float64, rnd *rand.Rand) (Source, error) {
	if frac <= 0 || frac > 1 {
		return nil, fmt.Errorf("%w: fraction must be in (0, 1], got %v", series.ErrInvalidConfig, frac)
	}
	n := int(frac * float64(src.Len()))
	if n < 1 {
		n = 1
	}
	return Limit(src, n, rnd)
}

// UniformWeights returns equal sampling weights for n records.
func UniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

// ProportionalWeights returns sampling weights proportional to each record's
// number of observations, so long series are drawn more often.
func ProportionalWeights(lengths []int) []float64 {
	total := 0
	for _, l := range lengths {
		total += l
	}
	w := make([]float64, len(lengths))
	if total == 0 {
		return UniformWeights(len(lengths))
	}
	for i, l := range lengths {
		w[i] = float64(l) / float64(total)
	}
	return w
}
