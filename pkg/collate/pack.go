package collate

import (
	"fmt"
	"sort"

	"github.com/chronolab/chronopack/pkg/series"
)

// Pack concatenates records into fixed-capacity bins using first-fit
// decreasing bin packing, producing one output row per bin. The number of
// rows can be smaller than the number of input records; that compaction is
// the strategy's efficiency gain over padding.
//
// Placement policy: records are sorted by true length, descending, with ties
// keeping their input order. Each record goes into the earliest-created bin
// whose remaining capacity fits it, or opens a new bin. Bins are right-padded
// to MaxLength after placement.
//
// The sample_id field marks, for each bin position, which record it belongs
// to: the k-th record placed in a bin contributes a block of value k+1 over
// its true length, and the bin's unused tail is zero.
//
// Only sequence fields survive packing; per-record scalars cannot be carried
// once several records share a row.
type Pack struct {
	Config
}

// NewPack creates a Pack strategy.
func NewPack(cfg Config) (*Pack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pack{Config: cfg}, nil
}

type bin struct {
	remaining int
	members   []int // record indices in placement order
}

// Collate bin-packs the records.
func (p *Pack) Collate(records []series.Record) (*series.Batch, error) {
	lengths, err := p.checkLengths(records)
	if err != nil {
		return nil, err
	}

	bins := p.pack(lengths)

	fields := make(map[string]series.Array, len(p.seqFields())+1)
	for _, name := range p.seqFields() {
		rows := make([]series.Array, len(bins))
		for i, b := range bins {
			parts := make([]series.Array, len(b.members))
			for j, idx := range b.members {
				parts[j] = records[idx][name]
			}
			rows[i] = series.Concat(parts...).PadRight(p.MaxLength, p.padFunc(name))
		}
		stacked, err := series.StackArrays(rows)
		if err != nil {
			return nil, fmt.Errorf("collate: pack: field %q: %w", name, err)
		}
		fields[name] = stacked
	}

	sampleID := make([]int64, len(bins)*p.MaxLength)
	for i, b := range bins {
		row := sampleID[i*p.MaxLength:]
		pos := 0
		for j, idx := range b.members {
			for t := 0; t < lengths[idx]; t++ {
				row[pos] = int64(j + 1)
				pos++
			}
		}
	}
	fields[series.FieldSampleID] = series.FromInt64(sampleID, len(bins), p.MaxLength)

	return series.NewBatch(fields)
}

// pack runs first-fit decreasing placement over the record lengths.
func (p *Pack) pack(lengths []int) []bin {
	order := make([]int, len(lengths))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lengths[order[a]] > lengths[order[b]]
	})

	var bins []bin
	for _, idx := range order {
		length := lengths[idx]
		target := -1
		for i := range bins {
			if bins[i].remaining >= length {
				target = i
				break
			}
		}
		if target == -1 {
			bins = append(bins, bin{remaining: p.MaxLength})
			target = len(bins) - 1
		}
		bins[target].members = append(bins[target].members, idx)
		bins[target].remaining -= length
	}
	return bins
}
