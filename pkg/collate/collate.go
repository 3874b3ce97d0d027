// Package collate converts lists of variable-length records into fixed-shape
// batches. Two interchangeable strategies are provided: Pad right-pads every
// record to the maximum length, Pack concatenates records into bins using
// first-fit-decreasing bin packing. Both emit a sample_id field that
// disambiguates records and padding inside each output row.
package collate

import (
	"fmt"

	"github.com/chronolab/chronopack/pkg/series"
)

// Collate converts records into one fixed-shape batch.
type Collate interface {
	Collate(records []series.Record) (*series.Batch, error)
}

// Config is shared by both strategies.
type Config struct {
	// MaxLength is the fixed time-axis length of every output row.
	MaxLength int

	// TargetField designates the sequence whose length defines each
	// record's true length. Defaults to series.FieldTarget.
	TargetField string

	// SeqFields lists sequence fields packed alongside the target. The
	// target itself is always included.
	SeqFields []string

	// PadFuncs overrides the fill function per field; series.Zeros is
	// used for fields without an entry.
	PadFuncs map[string]series.FillFunc
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.MaxLength <= 0 {
		return fmt.Errorf("%w: collate max length must be positive, got %d",
			series.ErrInvalidConfig, c.MaxLength)
	}
	return nil
}

func (c Config) targetField() string {
	if c.TargetField == "" {
		return series.FieldTarget
	}
	return c.TargetField
}

// seqFields returns the sequence fields with the target first, deduplicated.
func (c Config) seqFields() []string {
	out := []string{c.targetField()}
	for _, name := range c.SeqFields {
		if name != c.targetField() {
			out = append(out, name)
		}
	}
	return out
}

func (c Config) padFunc(name string) series.FillFunc {
	if f, ok := c.PadFuncs[name]; ok && f != nil {
		return f
	}
	return series.Zeros
}

// checkLengths asserts the common precondition of both strategies: every
// record's sequence fields agree with the target's length, and no record
// exceeds MaxLength. It returns the per-record true lengths.
func (c Config) checkLengths(records []series.Record) ([]int, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("collate: no records")
	}
	lengths := make([]int, len(records))
	for i, rec := range records {
		target, ok := rec[c.targetField()]
		if !ok {
			return nil, fmt.Errorf("collate: record %d is missing target field %q: %w",
				i, c.targetField(), series.ErrLengthConstraint)
		}
		length := target.Len()
		if length > c.MaxLength {
			return nil, fmt.Errorf("collate: record %d has length %d exceeding max length %d: %w",
				i, length, c.MaxLength, series.ErrLengthConstraint)
		}
		for _, name := range c.seqFields() {
			arr, ok := rec[name]
			if !ok {
				return nil, fmt.Errorf("collate: record %d is missing sequence field %q: %w",
					i, name, series.ErrLengthConstraint)
			}
			if arr.Len() != length {
				return nil, fmt.Errorf("collate: record %d field %q has length %d, want %d: %w",
					i, name, arr.Len(), length, series.ErrLengthConstraint)
			}
		}
		lengths[i] = length
	}
	return lengths, nil
}
