// Package sampler provides instance samplers for the windowing transform.
// A sampler maps a target sequence to the set of valid split indices for
// extracting (past, future) training instances.
//
// All stochastic samplers take an explicit *rand.Rand; none read process-wide
// random state.
package sampler

import (
	"math/rand"

	"github.com/chronolab/chronopack/pkg/series"
)

// Sampler returns candidate split indices for a target sequence. An empty
// result means no valid index was found on this draw; stochastic samplers
// may succeed on a retry.
type Sampler interface {
	Sample(target series.Array) []int
}

// Bounds restricts split indices to [MinPast, L-MinFuture] for a target of
// length L, so every instance has enough history and enough future.
type Bounds struct {
	MinPast   int
	MinFuture int
}

// window returns the valid index range [lo, hi] for a target, or ok=false
// when the target is too short to produce any instance.
func (b Bounds) window(target series.Array) (lo, hi int, ok bool) {
	lo = b.MinPast
	hi = target.Len() - b.MinFuture
	return lo, hi, lo <= hi
}

// ExpectedCount samples each valid index independently so that the expected
// number of returned indices per call is N. This mirrors the usual training
// sampler: short series yield fewer instances, long series more, with N
// instances on average.
type ExpectedCount struct {
	Bounds
	N   float64
	rnd *rand.Rand
}

// NewExpectedCount creates an ExpectedCount sampler with the given bounds.
func NewExpectedCount(n float64, bounds Bounds, rnd *rand.Rand) *ExpectedCount {
	return &ExpectedCount{Bounds: bounds, N: n, rnd: rnd}
}

// Sample returns indices drawn independently with probability N/window.
func (s *ExpectedCount) Sample(target series.Array) []int {
	lo, hi, ok := s.window(target)
	if !ok {
		return nil
	}
	window := hi - lo + 1
	p := s.N / float64(window)
	if p > 1 {
		p = 1
	}
	var out []int
	for i := lo; i <= hi; i++ {
		if s.rnd.Float64() < p {
			out = append(out, i)
		}
	}
	return out
}

// NumInstances draws exactly N indices uniformly (with replacement) from the
// valid window.
type NumInstances struct {
	Bounds
	N   int
	rnd *rand.Rand
}

// NewNumInstances creates a NumInstances sampler with the given bounds.
func NewNumInstances(n int, bounds Bounds, rnd *rand.Rand) *NumInstances {
	return &NumInstances{Bounds: bounds, N: n, rnd: rnd}
}

// Sample returns N uniform draws from the valid window.
func (s *NumInstances) Sample(target series.Array) []int {
	lo, hi, ok := s.window(target)
	if !ok {
		return nil
	}
	out := make([]int, s.N)
	for i := range out {
		out[i] = lo + s.rnd.Intn(hi-lo+1)
	}
	return out
}

// ValidationSplit deterministically returns the last valid index, so the
// future window covers the final observations of the series. Used for
// validation and test splits.
type ValidationSplit struct {
	Bounds
}

// NewValidationSplit creates a ValidationSplit sampler with the given bounds.
func NewValidationSplit(bounds Bounds) *ValidationSplit {
	return &ValidationSplit{Bounds: bounds}
}

// Sample returns the last valid index, or nothing for too-short targets.
func (s *ValidationSplit) Sample(target series.Array) []int {
	lo, hi, ok := s.window(target)
	_ = lo
	if !ok {
		return nil
	}
	return []int{hi}
}
