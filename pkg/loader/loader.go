package loader

import (
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/chronolab/chronopack/pkg/collate"
	"github.com/chronolab/chronopack/pkg/dataset"
	"github.com/chronolab/chronopack/pkg/log"
	"github.com/chronolab/chronopack/pkg/series"
	"github.com/chronolab/chronopack/pkg/transform"
)

// DefaultBatchSizeFactor sets how many records a single upstream fetch pulls
// relative to the batch size. Fetching more than one batch worth of records
// per collate call is what lets the pack strategy fill bins well.
const DefaultBatchSizeFactor = 2.0

// Options configure a DataLoader.
type Options struct {
	// BatchSize is the number of records per emitted batch. Required.
	BatchSize int

	// BatchSizeFactor scales the upstream fetch size:
	// fetch = floor(BatchSize * BatchSizeFactor), at least 1.
	// Zero means DefaultBatchSizeFactor.
	BatchSizeFactor float64

	// Cycle restarts the dataset pass indefinitely, reshuffling between
	// passes. Required when NumBatchesPerEpoch is set.
	Cycle bool

	// NumBatchesPerEpoch caps each epoch at a fixed number of batches.
	// Zero means one full pass per epoch.
	NumBatchesPerEpoch int

	// DropLast discards the final short batch of a pass.
	DropLast bool

	// FillLast pads the final short batch with zero-filled records up to
	// BatchSize. Ignored when DropLast is set.
	FillLast bool

	// Shuffle permutes the index order each pass. Ignored when Weights is
	// set.
	Shuffle bool

	// Weights, when non-nil, draw indices with replacement in proportion
	// to each record's weight. Must have one entry per source record.
	Weights []float64

	// Rand drives shuffling and weighted draws. Required when Shuffle or
	// Weights is set.
	Rand *rand.Rand

	// Transform is applied to every record before collation. Nil means
	// identity.
	Transform transform.Transform

	// Logger receives loader diagnostics. Nil means no logging.
	Logger log.Logger
}

// Validate checks option consistency.
func (o *Options) Validate() error {
	if o.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", series.ErrInvalidConfig, o.BatchSize)
	}
	if o.BatchSizeFactor < 0 {
		return fmt.Errorf("%w: batch size factor must not be negative, got %v", series.ErrInvalidConfig, o.BatchSizeFactor)
	}
	if o.NumBatchesPerEpoch < 0 {
		return fmt.Errorf("%w: batches per epoch must not be negative, got %d", series.ErrInvalidConfig, o.NumBatchesPerEpoch)
	}
	if o.NumBatchesPerEpoch > 0 && !o.Cycle {
		return fmt.Errorf("%w: a fixed number of batches per epoch requires cycling", series.ErrInvalidConfig)
	}
	if (o.Shuffle || o.Weights != nil) && o.Rand == nil {
		return fmt.Errorf("%w: shuffling and weighted sampling require a random source", series.ErrInvalidConfig)
	}
	return nil
}

func (o *Options) fetchSize() int {
	factor := o.BatchSizeFactor
	if factor == 0 {
		factor = DefaultBatchSizeFactor
	}
	n := int(float64(o.BatchSize) * factor)
	if n < 1 {
		n = 1
	}
	return n
}

// DataLoader turns a dataset source into an iterator of fixed-size training
// batches: it draws an index order per pass, fetches and transforms records,
// collates them, and re-slices the result to the batch size.
type DataLoader struct {
	src  dataset.Source
	coll collate.Collate
	opts Options

	it *Iterator
}

// New creates a DataLoader over src using the given collate strategy.
func New(src dataset.Source, coll collate.Collate, opts Options) (*DataLoader, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if src == nil || coll == nil {
		return nil, fmt.Errorf("%w: source and collate strategy are required", series.ErrInvalidConfig)
	}
	if opts.Weights != nil && len(opts.Weights) != src.Len() {
		return nil, fmt.Errorf("%w: got %d sampling weights for %d records",
			series.ErrInvalidConfig, len(opts.Weights), src.Len())
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNoopLogger()
	}
	return &DataLoader{src: src, coll: coll, opts: opts}, nil
}

// epochIndices draws the index order for one pass over the source.
func (l *DataLoader) epochIndices() []int {
	n := l.src.Len()
	switch {
	case l.opts.Weights != nil:
		return drawWeighted(l.opts.Weights, n, l.opts.Rand)
	case l.opts.Shuffle:
		return l.opts.Rand.Perm(n)
	default:
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}
}

func (l *DataLoader) newStream() Stream {
	pass := func() (Stream, error) {
		return newFetchStream(l.src, l.opts.Transform, l.coll, l.epochIndices(), l.opts.fetchSize()), nil
	}
	if l.opts.Cycle {
		return newCycleStream(pass)
	}
	st, _ := pass()
	return st
}

// Iter returns the batch iterator for the next epoch. The underlying stream
// is built lazily and rebuilt once exhausted, so successive epochs resume a
// cycling stream where the previous one stopped.
func (l *DataLoader) Iter() (*Epoch, error) {
	if l.it == nil || !l.it.HasNext() {
		it, err := NewIterator(l.newStream(), l.opts.BatchSize, l.opts.DropLast, l.opts.FillLast, l.opts.Logger)
		if err != nil {
			return nil, err
		}
		l.it = it
	}
	return &Epoch{it: l.it, remaining: l.opts.NumBatchesPerEpoch}, nil
}

// Epoch is one epoch's view of the loader: the shared iterator, optionally
// capped at a fixed number of batches.
type Epoch struct {
	it        *Iterator
	remaining int // 0 means uncapped
}

// Next returns the next batch of the epoch, or io.EOF when the epoch ends.
func (e *Epoch) Next() (*series.Batch, error) {
	if e.remaining < 0 {
		return nil, io.EOF
	}
	b, err := e.it.Next()
	if err != nil {
		return nil, err
	}
	if e.remaining > 0 {
		e.remaining--
		if e.remaining == 0 {
			e.remaining = -1
		}
	}
	return b, nil
}

// HasNext reports whether the epoch has another batch.
func (e *Epoch) HasNext() bool {
	if e.remaining < 0 {
		return false
	}
	return e.it.HasNext()
}

// drawWeighted draws n indices with replacement, each index chosen with
// probability proportional to its weight.
func drawWeighted(weights []float64, n int, rnd *rand.Rand) []int {
	cum := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	out := make([]int, n)
	for i := range out {
		u := rnd.Float64() * total
		out[i] = sort.SearchFloat64s(cum, u)
		if out[i] >= len(weights) {
			out[i] = len(weights) - 1
		}
	}
	return out
}
