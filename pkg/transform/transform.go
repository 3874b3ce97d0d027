// Package transform implements the per-record transform pipeline: pure
// functions from record to record, composed left to right, applied lazily on
// every dataset access. The windowing transform (SplitInstance) turns one
// long series into a (past, future) training instance.
package transform

import "github.com/chronolab/chronopack/pkg/series"

// Transform rewrites one record. Implementations must not retain or mutate
// the input record's arrays; they operate on clones.
type Transform interface {
	Apply(rec series.Record) (series.Record, error)
}

// Identity is a no-op transform. Chains elide it.
type Identity struct{}

// Apply returns the record unchanged.
func (Identity) Apply(rec series.Record) (series.Record, error) { return rec, nil }

// Chain applies transforms in order.
type Chain struct {
	transforms []Transform
}

// NewChain composes transforms left to right. Nested chains are flattened
// and Identity transforms removed.
func NewChain(transforms ...Transform) *Chain {
	flat := make([]Transform, 0, len(transforms))
	for _, t := range transforms {
		switch tt := t.(type) {
		case nil, Identity:
			continue
		case *Chain:
			flat = append(flat, tt.transforms...)
		default:
			flat = append(flat, t)
		}
	}
	return &Chain{transforms: flat}
}

// Len returns the number of composed transforms after flattening.
func (c *Chain) Len() int { return len(c.transforms) }

// Apply runs every transform in order, stopping at the first error.
func (c *Chain) Apply(rec series.Record) (series.Record, error) {
	var err error
	for _, t := range c.transforms {
		rec, err = t.Apply(rec)
		if err != nil {
			return nil, err
		}
	}
	return rec, nil
}
