package collate

import (
	"fmt"

	"github.com/chronolab/chronopack/pkg/series"
)

// Pad right-pads every sequence field to MaxLength, producing one output row
// per input record. The sample_id field is a 0/1 mask: position t of row i
// is 1 when t lies within record i's true length.
//
// Non-sequence fields (scalars, fixed-length auxiliaries) are stacked
// unchanged, so batch rows keep their per-record metadata.
type Pad struct {
	Config
}

// NewPad creates a Pad strategy.
func NewPad(cfg Config) (*Pad, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pad{Config: cfg}, nil
}

// Collate pads and stacks the records.
func (p *Pad) Collate(records []series.Record) (*series.Batch, error) {
	lengths, err := p.checkLengths(records)
	if err != nil {
		return nil, err
	}

	padded := make([]series.Record, len(records))
	for i, rec := range records {
		out := rec.Clone()
		for _, name := range p.seqFields() {
			out[name] = out[name].PadRight(p.MaxLength, p.padFunc(name))
		}
		padded[i] = out
	}

	batch, err := series.Stack(padded)
	if err != nil {
		return nil, fmt.Errorf("collate: pad: %w", err)
	}

	mask := make([]int64, len(records)*p.MaxLength)
	for i, length := range lengths {
		row := mask[i*p.MaxLength:]
		for t := 0; t < length; t++ {
			row[t] = 1
		}
	}
	return batch.WithField(series.FieldSampleID, series.FromInt64(mask, len(records), p.MaxLength))
}
